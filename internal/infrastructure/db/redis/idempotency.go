package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// MovementDedup provides idempotency checks for deposits and withdrawals,
// backed by Redis. Each key maps to the id of the movement it first
// created, so a replayed request can return the original movement.
type MovementDedup struct {
	client *redis.Client
}

// NewMovementDedup creates a MovementDedup wrapping the given Redis client.
func NewMovementDedup(client *redis.Client) *MovementDedup {
	return &MovementDedup{client: client}
}

// Seen reports whether the idempotency key has been used and, if so, the id
// of the movement it produced.
func (d *MovementDedup) Seen(ctx context.Context, key string) (string, bool, error) {
	id, err := d.client.Get(ctx, d.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency check: %w", err)
	}
	return id, true, nil
}

// Mark records the movement created for this key (expires after idempotencyTTL).
func (d *MovementDedup) Mark(ctx context.Context, key, movementID string) error {
	return d.client.Set(ctx, d.key(key), movementID, idempotencyTTL).Err()
}

func (d *MovementDedup) key(k string) string {
	return "movement:idem:" + k
}
