package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-cargolist/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath      string        // CARGOLIST_CONFIG: config file name or path
	StorageDriver   string        // CARGOLIST_STORAGE_DRIVER: sqlite, redis, memory
	StoragePath     string        // CARGOLIST_STORAGE_PATH: sqlite file
	RedisAddr       string        // CARGOLIST_REDIS_ADDR: redis host:port
	ServerAddr      string        // CARGOLIST_SERVER_ADDR: editor listen address
	OutputDir       string        // CARGOLIST_OUTPUT_DIR: fs sink directory
	Timeout         time.Duration // CARGOLIST_TIMEOUT: export and import timeout
	ExtractProvider string        // CARGOLIST_EXTRACT_PROVIDER: gemini, anthropic, openai
	ExtractModel    string        // CARGOLIST_EXTRACT_MODEL: model name
	LogLevel        string        // CARGOLIST_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid CARGOLIST_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CARGOLIST_CONFIG":           true,
	"CARGOLIST_STORAGE_DRIVER":   true,
	"CARGOLIST_STORAGE_PATH":     true,
	"CARGOLIST_REDIS_ADDR":       true,
	"CARGOLIST_SERVER_ADDR":      true,
	"CARGOLIST_OUTPUT_DIR":       true,
	"CARGOLIST_TIMEOUT":          true,
	"CARGOLIST_EXTRACT_PROVIDER": true,
	"CARGOLIST_EXTRACT_MODEL":    true,
	"CARGOLIST_LOG_LEVEL":        true,
	"CARGOLIST_CONTAINER":        true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("CARGOLIST_CONFIG"),
		StorageDriver:   os.Getenv("CARGOLIST_STORAGE_DRIVER"),
		StoragePath:     os.Getenv("CARGOLIST_STORAGE_PATH"),
		RedisAddr:       os.Getenv("CARGOLIST_REDIS_ADDR"),
		ServerAddr:      os.Getenv("CARGOLIST_SERVER_ADDR"),
		OutputDir:       os.Getenv("CARGOLIST_OUTPUT_DIR"),
		ExtractProvider: os.Getenv("CARGOLIST_EXTRACT_PROVIDER"),
		ExtractModel:    os.Getenv("CARGOLIST_EXTRACT_MODEL"),
		LogLevel:        os.Getenv("CARGOLIST_LOG_LEVEL"),
	}

	// Invalid or non-positive durations are ignored
	if timeout := os.Getenv("CARGOLIST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CARGOLIST_* variables.
// Helps catch typos like CARGOLIST_STORAGE instead of CARGOLIST_STORAGE_DRIVER.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CARGOLIST_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.StorageDriver != "" {
		cfg.Storage.Driver = env.StorageDriver
	}
	if env.StoragePath != "" {
		cfg.Storage.Path = env.StoragePath
	}
	if env.RedisAddr != "" {
		cfg.Storage.RedisAddr = env.RedisAddr
	}
	if env.ServerAddr != "" {
		cfg.Server.Addr = env.ServerAddr
	}
	if env.OutputDir != "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout
		cfg.Extract.Timeout = env.Timeout
	}
	if env.ExtractProvider != "" {
		cfg.Extract.Provider = env.ExtractProvider
	}
	if env.ExtractModel != "" {
		cfg.Extract.Model = env.ExtractModel
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
