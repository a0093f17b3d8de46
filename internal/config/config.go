// Package config loads the YAML configuration of the cargolist CLI and
// editor server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cargolist/internal/fileutil"
	"github.com/alnah/go-cargolist/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxAddrLength      = 255  // host:port
	MaxURLLength       = 2048 // Browser limit
	MaxKeyPrefixLength = 64   // storage key namespace
	MaxNameLength      = 100  // model, bucket, env var names
	MaxSecretLength    = 512  // redis password
	MaxWorkers         = 32   // export browsers per server
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Artifact sinks.
const (
	SinkFS = "fs"
	SinkS3 = "s3"
)

// Config holds all configuration of the CLI and the editor server.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Extract ExtractConfig `yaml:"extract"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects where document slices are persisted.
type StorageConfig struct {
	Driver        string `yaml:"driver"`        // "sqlite" (default), "redis", "memory"
	Path          string `yaml:"path"`          // sqlite file (default: user data dir)
	RedisAddr     string `yaml:"redisAddr"`     // host:port
	RedisPassword string `yaml:"redisPassword"` // optional
	RedisDB       int    `yaml:"redisDB"`       // 0-15
	KeyPrefix     string `yaml:"keyPrefix"`     // prepended to every slice key
}

// ServerConfig defines the editor HTTP server.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // listen address (default: "127.0.0.1:8080")
	Workers int    `yaml:"workers"` // export browsers (default 1), 0 = from CPU count
}

// ExportConfig defines PDF and PNG export options.
type ExportConfig struct {
	FontsURL   string        `yaml:"fontsURL"`   // stylesheet embedded into exports ("none" disables)
	Timeout    time.Duration `yaml:"timeout"`    // per export (default: 2m)
	OutputDir  string        `yaml:"outputDir"`  // fs sink directory (default: ".")
	Sink       string        `yaml:"sink"`       // "fs" (default) or "s3"
	S3Bucket   string        `yaml:"s3Bucket"`   // required for the s3 sink
	S3Prefix   string        `yaml:"s3Prefix"`   // object key prefix
	S3Region   string        `yaml:"s3Region"`   // optional, SDK default chain otherwise
	S3Endpoint string        `yaml:"s3Endpoint"` // optional, S3-compatible stores
}

// ExtractConfig defines the image-import extraction service.
type ExtractConfig struct {
	Provider  string        `yaml:"provider"`  // "gemini" (default), "anthropic", "openai"
	Model     string        `yaml:"model"`     // empty = provider default
	APIKeyEnv string        `yaml:"apiKeyEnv"` // empty = provider default variable
	BaseURL   string        `yaml:"baseURL"`   // optional API endpoint override
	Timeout   time.Duration `yaml:"timeout"`   // per request (default: 2m)
}

// LogConfig defines log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info" (default), "warn", "error"
	Format string `yaml:"format"` // "text" (default) or "json"
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	// Validate storage fields
	if err := oneOf("storage.driver", c.Storage.Driver, DriverSQLite, DriverRedis, DriverMemory); err != nil {
		return err
	}
	if err := validateFieldLength("storage.path", c.Storage.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.redisAddr", c.Storage.RedisAddr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.redisPassword", c.Storage.RedisPassword, MaxSecretLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.keyPrefix", c.Storage.KeyPrefix, MaxKeyPrefixLength); err != nil {
		return err
	}
	if c.Storage.RedisDB < 0 || c.Storage.RedisDB > 15 {
		return fmt.Errorf("%w: storage.redisDB: must be between 0 and 15, got %d", ErrInvalidValue, c.Storage.RedisDB)
	}

	// Validate server fields
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return fmt.Errorf("%w: server.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Server.Workers)
	}

	// Validate export fields
	if err := validateFieldLength("export.fontsURL", c.Export.FontsURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.outputDir", c.Export.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := oneOf("export.sink", c.Export.Sink, SinkFS, SinkS3); err != nil {
		return err
	}
	if c.Export.Sink == SinkS3 && c.Export.S3Bucket == "" {
		return fmt.Errorf("%w: export.s3Bucket: required when sink is s3", ErrInvalidValue)
	}
	for name, v := range map[string]string{
		"export.s3Bucket": c.Export.S3Bucket,
		"export.s3Prefix": c.Export.S3Prefix,
		"export.s3Region": c.Export.S3Region,
	} {
		if err := validateFieldLength(name, v, MaxNameLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("export.s3Endpoint", c.Export.S3Endpoint, MaxURLLength); err != nil {
		return err
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("%w: export.timeout: must not be negative", ErrInvalidValue)
	}

	// Validate extract fields
	if err := oneOf("extract.provider", c.Extract.Provider, "gemini", "anthropic", "openai"); err != nil {
		return err
	}
	if err := validateFieldLength("extract.model", c.Extract.Model, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("extract.apiKeyEnv", c.Extract.APIKeyEnv, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("extract.baseURL", c.Extract.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Extract.Timeout < 0 {
		return fmt.Errorf("%w: extract.timeout: must not be negative", ErrInvalidValue)
	}

	// Validate log fields
	if err := oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return oneOf("log.format", c.Log.Format, "text", "json")
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// oneOf accepts an empty value (meaning default) or one of allowed,
// case-insensitively.
func oneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns the configuration used when no file is given.
// Empty fields mean "use the built-in default" and are resolved by the CLI.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Driver: DriverSQLite},
		Server:  ServerConfig{Addr: "127.0.0.1:8080", Workers: 1},
		Export:  ExportConfig{Sink: SinkFS, OutputDir: "."},
		Extract: ExtractConfig{Provider: "gemini"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values missing from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/cargolist/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "cargolist", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
