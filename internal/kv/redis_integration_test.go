//go:build integration

package kv

import (
	"context"
	"os"
	"testing"
)

func TestRedis_Integration(t *testing.T) {
	addr := os.Getenv("CARGOLIST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CARGOLIST_TEST_REDIS_ADDR not set")
	}

	r, err := OpenRedis(context.Background(), addr, "", 15)
	if err != nil {
		t.Fatalf("OpenRedis() error = %v", err)
	}
	defer r.Close()

	backendContract(t, r)
}
