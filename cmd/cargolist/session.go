package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/artifact"
	"github.com/alnah/go-cargolist/internal/config"
	"github.com/alnah/go-cargolist/internal/extract"
	"github.com/alnah/go-cargolist/internal/kv"
	"github.com/alnah/go-cargolist/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage         = errors.New("invalid usage")
	ErrOpenStorage   = errors.New("failed to open storage")
	ErrWriteArtifact = errors.New("failed to write artifact")
	ErrSessionLocked = errors.New("state is in use by another cargolist process")
)

// fontsNone disables font embedding when given as fonts URL.
const fontsNone = "none"

// resolveConfig loads the config file named by the flag or the
// environment, then applies environment and flag overrides.
func resolveConfig(common commonFlags, storage storageFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	applyStorageFlags(storage, cfg)
	applyLogFlags(common, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyStorageFlags applies non-empty storage flags over cfg.
func applyStorageFlags(f storageFlags, cfg *config.Config) {
	if f.driver != "" {
		cfg.Storage.Driver = f.driver
	}
	if f.path != "" {
		cfg.Storage.Path = f.path
	}
	if f.redisAddr != "" {
		cfg.Storage.RedisAddr = f.redisAddr
	}
	if f.keyPrefix != "" {
		cfg.Storage.KeyPrefix = f.keyPrefix
	}
}

// applyLogFlags applies log flags over cfg. --verbose wins over --quiet,
// and both win over --log-level.
func applyLogFlags(f commonFlags, cfg *config.Config) {
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
}

// parseTimeout parses a duration flag. Empty means zero.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, s)
	}
	return d, nil
}

// newLogger builds the process logger from cfg.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: w})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}
	return logger, nil
}

// defaultStatePath returns the sqlite file used when none is configured:
// cargolist/cargolist.db under the user config directory, or the working
// directory when that is unknown.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return kv.DefaultSQLitePath
	}
	return filepath.Join(dir, "cargolist", kv.DefaultSQLitePath)
}

// session is an opened state backend with the Editor bound to it.
type session struct {
	backend kv.Backend
	editor  *cargolist.Editor
	lock    *flock.Flock
	logger  *slog.Logger
}

// openSession opens the configured backend and loads the Editor. When
// exclusive is set and the backend is a sqlite file, a lock file next to
// it keeps a second writer out.
func openSession(ctx context.Context, cfg *config.Config, exclusive bool, logger *slog.Logger) (*session, error) {
	opts := kv.Options{
		Driver:        kv.Driver(strings.ToLower(cfg.Storage.Driver)),
		Path:          cfg.Storage.Path,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
	}
	if (opts.Driver == "" || opts.Driver == kv.DriverSQLite) && opts.Path == "" {
		opts.Path = defaultStatePath()
	}

	s := &session{logger: logger}
	if exclusive && (opts.Driver == "" || opts.Driver == kv.DriverSQLite) {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpenStorage, err)
		}
		lockPath := opts.Path + ".lock"
		s.lock = flock.New(lockPath)
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("%w: acquire lock: %v", ErrOpenStorage, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSessionLocked, opts.Path)
		}
	}

	backend, err := kv.Open(ctx, opts)
	if err != nil {
		s.unlock()
		if errors.Is(err, kv.ErrUnknownDriver) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrOpenStorage, err)
	}
	s.backend = backend

	stores := cargolist.NewStores(backend, cfg.Storage.KeyPrefix, logger)
	s.editor = cargolist.NewEditor(ctx, stores, logger)
	logger.Debug("session opened", slog.String("driver", string(backend.Driver())))
	return s, nil
}

// Close releases the backend and the lock.
func (s *session) Close() {
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Warn("closing storage", slog.Any("error", err))
		}
	}
	s.unlock()
}

func (s *session) unlock() {
	if s.lock == nil {
		return
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release state lock", slog.Any("error", err))
	}
}

// documentExporter is an Exporter or a pool of them.
type documentExporter = cargolist.DocumentExporter

// exporterFactory builds the exporter for one command run.
type exporterFactory func(cfg *config.Config, logger *slog.Logger) (documentExporter, error)

// extractorFactory builds the extraction client for one import.
type extractorFactory func(ctx context.Context, cfg *config.Config) (cargolist.Extractor, error)

// newExporter builds a headless-Chrome exporter from cfg.
func newExporter(cfg *config.Config, logger *slog.Logger) (documentExporter, error) {
	renderer, err := cargolist.NewRenderer()
	if err != nil {
		return nil, err
	}
	opts := []cargolist.ExportOption{
		cargolist.WithExportTimeout(cfg.Export.Timeout),
		cargolist.WithExportLogger(logger),
	}
	switch cfg.Export.FontsURL {
	case "":
	case fontsNone:
		opts = append(opts, cargolist.WithFontsURL(""))
	default:
		opts = append(opts, cargolist.WithFontsURL(cfg.Export.FontsURL))
	}
	return cargolist.NewExporter(renderer, opts...), nil
}

// newExtractor builds the configured extraction client.
func newExtractor(ctx context.Context, cfg *config.Config) (cargolist.Extractor, error) {
	timeout := cfg.Extract.Timeout
	if timeout <= 0 {
		timeout = extract.DefaultTimeout
	}
	return extract.New(ctx, extract.Options{
		Provider:   extract.Provider(strings.ToLower(cfg.Extract.Provider)),
		Model:      cfg.Extract.Model,
		APIKeyEnv:  cfg.Extract.APIKeyEnv,
		BaseURL:    cfg.Extract.BaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	})
}

// extractTimeout returns the bound of one import call.
func extractTimeout(cfg *config.Config) time.Duration {
	if cfg.Extract.Timeout > 0 {
		return cfg.Extract.Timeout
	}
	return extract.DefaultTimeout
}

// openSink returns the artifact sink configured in cfg.
func openSink(ctx context.Context, cfg *config.Config) (artifact.Sink, error) {
	return artifact.Open(ctx, artifact.Options{
		Kind: strings.ToLower(cfg.Export.Sink),
		Dir:  cfg.Export.OutputDir,
		S3: artifact.S3Config{
			Bucket:   cfg.Export.S3Bucket,
			Prefix:   cfg.Export.S3Prefix,
			Region:   cfg.Export.S3Region,
			Endpoint: cfg.Export.S3Endpoint,
			// S3-compatible endpoints are addressed path-style.
			PathStyle: cfg.Export.S3Endpoint != "",
		},
	})
}
