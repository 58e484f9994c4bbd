// Package redis provides the connection to the idempotency store and the
// movement dedup built on top of it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config holds the settings for the idempotency store connection. Only Addr
// is mandatory; Password may be empty for unauthenticated deployments.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize caps concurrent connections. Zero lets the client pick
	// its default (10 per CPU).
	PoolSize int
}

// Connect opens a Redis client and verifies it answers a ping before
// handing it out, so a misconfigured address fails at startup rather than
// on the first movement.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
