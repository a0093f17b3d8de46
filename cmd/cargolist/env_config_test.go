package main

// Notes:
// - Tests touching the process environment use t.Setenv and therefore do
//   not run in parallel.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-cargolist/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment reading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("CARGOLIST_CONFIG", "work")
	t.Setenv("CARGOLIST_STORAGE_DRIVER", "redis")
	t.Setenv("CARGOLIST_STORAGE_PATH", "/tmp/state.db")
	t.Setenv("CARGOLIST_REDIS_ADDR", "cache:6379")
	t.Setenv("CARGOLIST_SERVER_ADDR", ":9090")
	t.Setenv("CARGOLIST_OUTPUT_DIR", "/srv/out")
	t.Setenv("CARGOLIST_TIMEOUT", "45s")
	t.Setenv("CARGOLIST_EXTRACT_PROVIDER", "openai")
	t.Setenv("CARGOLIST_EXTRACT_MODEL", "gpt-4o")
	t.Setenv("CARGOLIST_LOG_LEVEL", "debug")

	env := loadEnvConfig()

	want := envConfig{
		ConfigPath:      "work",
		StorageDriver:   "redis",
		StoragePath:     "/tmp/state.db",
		RedisAddr:       "cache:6379",
		ServerAddr:      ":9090",
		OutputDir:       "/srv/out",
		Timeout:         45 * time.Second,
		ExtractProvider: "openai",
		ExtractModel:    "gpt-4o",
		LogLevel:        "debug",
	}
	if *env != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *env, want)
	}
}

func TestLoadEnvConfig_InvalidTimeoutIgnored(t *testing.T) {
	for _, v := range []string{"soon", "-5s", "0s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("CARGOLIST_TIMEOUT", v)
			if got := loadEnvConfig().Timeout; got != 0 {
				t.Errorf("Timeout = %v, want 0", got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("CARGOLIST_STORAGE", "redis")
	t.Setenv("CARGOLIST_LOG_LEVEL", "info")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "CARGOLIST_STORAGE ") {
		t.Errorf("missing warning for CARGOLIST_STORAGE: %q", out)
	}
	if strings.Contains(out, "CARGOLIST_LOG_LEVEL") {
		t.Errorf("known variable reported: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env overrides file values
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty env keeps config", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)
		if *cfg != *config.DefaultConfig() {
			t.Errorf("config changed: %+v", cfg)
		}
	})

	t.Run("set values override file", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Storage.Driver = "sqlite"
		cfg.Extract.Provider = "anthropic"

		applyEnvConfig(&envConfig{
			StorageDriver:   "memory",
			ExtractProvider: "openai",
			Timeout:         time.Minute,
			ServerAddr:      ":1",
		}, cfg)

		if cfg.Storage.Driver != "memory" || cfg.Extract.Provider != "openai" || cfg.Server.Addr != ":1" {
			t.Errorf("overrides not applied: %+v", cfg)
		}
		if cfg.Export.Timeout != time.Minute || cfg.Extract.Timeout != time.Minute {
			t.Errorf("timeouts = %v / %v", cfg.Export.Timeout, cfg.Extract.Timeout)
		}
	})
}
