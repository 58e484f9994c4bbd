package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contabank/ledger-api/internal/api"
	"github.com/contabank/ledger-api/internal/core/service"
	"github.com/contabank/ledger-api/internal/infrastructure/config"
	mongodb "github.com/contabank/ledger-api/internal/infrastructure/db/mongo"
	redisdb "github.com/contabank/ledger-api/internal/infrastructure/db/redis"
	"github.com/contabank/ledger-api/internal/infrastructure/seed"
	"github.com/contabank/ledger-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	movementRepo := mongodb.NewMovementRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":     userRepo.EnsureIndexes,
		"clients":   clientRepo.EnsureIndexes,
		"movements": movementRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	accountService := service.NewAccountService(
		mongodb.NewAccountRepository(db),
		clientRepo,
		movementRepo,
		mongodb.NewTxRunner(client),
		nil,
		log,
	)
	seeder := seed.New(userRepo, accountService, log)
	if err := seeder.Users(ctx); err != nil {
		log.Fatal().Err(err).Msg("user bootstrap failed")
	}
	if cfg.SeedDemoData {
		seeder.DemoAccounts(ctx)
	}

	e := api.NewRouter(client, db, rdb, cfg.JWTSecret, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("ledger api listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
