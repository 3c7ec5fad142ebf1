// Package attempts keeps failed login counters in redis.
package attempts

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login:attempts:"

type Repository struct {
	client *redis.Client
	window time.Duration
}

// NewRepository counts failures per key; a counter expires window after the
// last failure.
func NewRepository(client *redis.Client, window time.Duration) *Repository {
	return &Repository{client: client, window: window}
}

func (r Repository) Count(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, keyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "reading login attempts")
	}

	return n, nil
}

func (r Repository) Increment(ctx context.Context, key string) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, keyPrefix+key)
	pipe.Expire(ctx, keyPrefix+key, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "counting login attempt")
	}

	return nil
}

func (r Repository) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errors.Wrap(err, "resetting login attempts")
	}

	return nil
}
