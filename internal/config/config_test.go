package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cargolist.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, DriverSQLite)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Workers != 1 {
		t.Errorf("Server.Workers = %d, want 1", cfg.Server.Workers)
	}
	if cfg.Export.Sink != SinkFS || cfg.Export.OutputDir != "." {
		t.Errorf("Export = %+v", cfg.Export)
	}
	if cfg.Extract.Provider != "gemini" {
		t.Errorf("Extract.Provider = %q", cfg.Extract.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr != errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "redis driver", mutate: func(c *Config) { c.Storage.Driver = "redis"; c.Storage.RedisAddr = "localhost:6379" }},
		{name: "driver case-insensitive", mutate: func(c *Config) { c.Storage.Driver = "SQLite" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "postgres" }, wantErr: ErrInvalidValue},
		{name: "redis db out of range", mutate: func(c *Config) { c.Storage.RedisDB = 16 }, wantErr: ErrInvalidValue},
		{name: "key prefix too long", mutate: func(c *Config) { c.Storage.KeyPrefix = strings.Repeat("k", MaxKeyPrefixLength+1) }, wantErr: ErrFieldTooLong},
		{name: "explicit workers", mutate: func(c *Config) { c.Server.Workers = 4 }},
		{name: "workers out of range", mutate: func(c *Config) { c.Server.Workers = MaxWorkers + 1 }, wantErr: ErrInvalidValue},
		{name: "s3 sink without bucket", mutate: func(c *Config) { c.Export.Sink = SinkS3 }, wantErr: ErrInvalidValue},
		{name: "s3 sink with bucket", mutate: func(c *Config) { c.Export.Sink = SinkS3; c.Export.S3Bucket = "manifests" }},
		{name: "unknown sink", mutate: func(c *Config) { c.Export.Sink = "ftp" }, wantErr: ErrInvalidValue},
		{name: "fonts url too long", mutate: func(c *Config) { c.Export.FontsURL = strings.Repeat("u", MaxURLLength+1) }, wantErr: ErrFieldTooLong},
		{name: "negative export timeout", mutate: func(c *Config) { c.Export.Timeout = -time.Second }, wantErr: ErrInvalidValue},
		{name: "unknown provider", mutate: func(c *Config) { c.Extract.Provider = "llama" }, wantErr: ErrInvalidValue},
		{name: "negative extract timeout", mutate: func(c *Config) { c.Extract.Timeout = -time.Second }, wantErr: ErrInvalidValue},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
		{name: "empty enums mean default", mutate: func(c *Config) { *c = Config{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `storage:
  driver: redis
  redisAddr: "localhost:6379"
  redisDB: 2
export:
  timeout: 90s
  sink: s3
  s3Bucket: manifests
extract:
  provider: anthropic
log:
  level: debug
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Storage.Driver != "redis" || cfg.Storage.RedisAddr != "localhost:6379" || cfg.Storage.RedisDB != 2 {
			t.Errorf("Storage = %+v", cfg.Storage)
		}
		if cfg.Export.Timeout != 90*time.Second || cfg.Export.S3Bucket != "manifests" {
			t.Errorf("Export = %+v", cfg.Export)
		}
		if cfg.Extract.Provider != "anthropic" || cfg.Log.Level != "debug" {
			t.Errorf("Extract/Log = %+v / %+v", cfg.Extract, cfg.Log)
		}
		// Untouched sections keep defaults.
		if cfg.Server.Addr != "127.0.0.1:8080" || cfg.Log.Format != "text" {
			t.Errorf("defaults lost: server %+v, log %+v", cfg.Server, cfg.Log)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(writeConfig(t, "storage: [unclosed"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(writeConfig(t, "storage:\n  driver: sqlite\n  unknownField: x\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(writeConfig(t, "extract:\n  provider: llama\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	t.Run("local yml found", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "work.yml"), []byte("log:\n  level: warn\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		cfg, err := LoadConfig("work")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %q", cfg.Log.Level)
		}
	})

	t.Run("user config dir found", func(t *testing.T) {
		userDir := filepath.Join(dir, "xdg", "cargolist")
		if err := os.MkdirAll(userDir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(filepath.Join(userDir, "shop.yaml"), []byte("server:\n  addr: \":9000\"\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		cfg, err := LoadConfig("shop")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
	})

	t.Run("missing name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "absent.yaml") || !strings.Contains(err.Error(), "absent.yml") {
			t.Errorf("error does not list tried paths: %v", err)
		}
	})
}
