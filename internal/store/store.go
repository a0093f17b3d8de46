// Package store binds one document slice to one key of a kv.Backend with
// load-or-default, merge-on-read and save-on-write semantics.
//
// Store never returns storage errors to its caller: a failed or corrupt read
// yields the default value, a failed write is logged and dropped.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alnah/go-cargolist/internal/kv"
)

// ErrNotObject is reported when a record slice holds a non-object value.
var ErrNotObject = errors.New("stored value is not a JSON object")

// Strategy decides how a stored payload combines with the default value.
type Strategy interface {
	Decode(payload []byte, def any, dst any) error
}

// Store persists a value of type T under a single key.
type Store[T any] struct {
	backend  kv.Backend
	key      string
	def      T
	strategy Strategy
	logger   *slog.Logger
}

// New creates a Store. A nil logger discards warnings.
func New[T any](backend kv.Backend, key string, def T, strategy Strategy, logger *slog.Logger) *Store[T] {
	if strategy == nil {
		strategy = Replace{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store[T]{
		backend:  backend,
		key:      key,
		def:      def,
		strategy: strategy,
		logger:   logger,
	}
}

// Key returns the storage key.
func (s *Store[T]) Key() string { return s.key }

// Default returns the built-in default value.
func (s *Store[T]) Default() T { return s.def }

// Load reads the stored value, falling back to the default when the key is
// absent or the payload cannot be read or decoded.
func (s *Store[T]) Load(ctx context.Context) T {
	raw, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("error reading stored slice", "key", s.key, "error", err)
		return s.def
	}
	if !found || raw == "" {
		return s.def
	}

	var out T
	if err := s.strategy.Decode([]byte(raw), s.def, &out); err != nil {
		s.logger.Warn("error decoding stored slice", "key", s.key, "error", err)
		return s.def
	}
	return out
}

// Save serializes v and writes it. Failures are logged, never returned.
func (s *Store[T]) Save(ctx context.Context, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("error encoding slice", "key", s.key, "error", err)
		return
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("error writing slice", "key", s.key, "error", err)
	}
}

// Clear removes the stored value so the next Load returns the default.
func (s *Store[T]) Clear(ctx context.Context) {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.logger.Warn("error clearing slice", "key", s.key, "error", err)
	}
}

// Replace returns the stored value as-is. Used for sequences.
type Replace struct{}

func (Replace) Decode(payload []byte, _ any, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// ShallowMerge overlays the stored top-level keys onto the default record.
// Keys only present in the default survive, keys only present in the stored
// value survive too, shared keys take the stored value.
type ShallowMerge struct{}

func (ShallowMerge) Decode(payload []byte, def any, dst any) error {
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(payload, &stored); err != nil || stored == nil {
		return fmt.Errorf("%w: %s", ErrNotObject, truncate(payload, 40))
	}

	defJSON, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode default: %w", err)
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(defJSON, &merged); err != nil {
		return fmt.Errorf("default is not an object: %w", err)
	}
	for k, v := range stored {
		merged[k] = v
	}

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode merged: %w", err)
	}
	if err := json.Unmarshal(mergedJSON, dst); err != nil {
		return fmt.Errorf("decode merged: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
