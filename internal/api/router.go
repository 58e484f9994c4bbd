package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contabank/ledger-api/internal/api/handler"
	"github.com/contabank/ledger-api/internal/api/middleware"
	"github.com/contabank/ledger-api/internal/core/service"
	mongodb "github.com/contabank/ledger-api/internal/infrastructure/db/mongo"
	redisdb "github.com/contabank/ledger-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/contabank/ledger-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(client *mongo.Client, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ledger"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	accountRepo := mongodb.NewAccountRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	movementRepo := mongodb.NewMovementRepository(db)
	txRunner := mongodb.NewTxRunner(client)
	dedup := redisdb.NewMovementDedup(rdb)

	tokenService := service.NewTokenService(jwtSecret)
	authService := service.NewAuthService(userRepo, tokenService, log)
	accountService := service.NewAccountService(accountRepo, clientRepo, movementRepo, txRunner, dedup, log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)

	// Resolve credentials on every call; enforcement happens per group.
	e.Use(middleware.Auth(tokenService, userRepo))

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Protected routes ---
	accounts := e.Group("/accounts", middleware.RequireAuth())
	accounts.GET("", accountHandler.List)
	accounts.POST("", accountHandler.Create)
	accounts.GET("/:id", accountHandler.Get)
	accounts.PUT("/:id", accountHandler.Update)
	accounts.PATCH("/:id", accountHandler.UpdatePartial)
	accounts.DELETE("/:id", accountHandler.Delete)
	accounts.GET("/:id/statement", accountHandler.Statement)
	accounts.POST("/:id/withdrawal", accountHandler.Withdraw)
	accounts.POST("/:id/deposit", accountHandler.Deposit)

	return e
}
