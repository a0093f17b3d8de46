package kv

import (
	"context"
	"errors"
	"fmt"

	lowimpl "github.com/redis/go-redis/v9"
)

// DefaultRedisAddr is used when no address is configured.
const DefaultRedisAddr = "127.0.0.1:6379"

// Redis stores slices as plain string keys in a redis database.
type Redis struct {
	internal *lowimpl.Client
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	if addr == "" {
		addr = DefaultRedisAddr
	}
	c := lowimpl.NewClient(&lowimpl.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Redis{internal: c}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.internal.Get(ctx, key).Result()
	if errors.Is(err, lowimpl.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	// No expiration: slices live until explicitly reset.
	return r.internal.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.internal.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	if r.internal == nil {
		return nil
	}
	return r.internal.Close()
}

func (r *Redis) Driver() Driver { return DriverRedis }

var _ Backend = (*Redis)(nil)
