// Package kv provides the key-value backends that hold persisted document
// slices. Every backend stores opaque string values under string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Driver identifies a concrete backend implementation.
type Driver string

const (
	DriverSQLite Driver = "sqlite" // single-file database (default)
	DriverRedis  Driver = "redis"  // shared local cache server
	DriverMemory Driver = "memory" // in-process map (tests, throwaway sessions)
)

// Sentinel errors for backend operations.
var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrClosed        = errors.New("storage backend is closed")
)

// Backend is the minimal key-value contract used by the slice store.
type Backend interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
	Driver() Driver
}

// Options selects and configures a backend.
type Options struct {
	Driver        Driver
	Path          string // sqlite database file
	RedisAddr     string // host:port
	RedisPassword string
	RedisDB       int
}

// Open returns the backend selected by opts.Driver (sqlite when empty).
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return OpenSQLite(ctx, opts.Path)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
