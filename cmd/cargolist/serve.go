package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/config"
)

// shutdownGrace bounds in-flight requests after a signal.
const shutdownGrace = 10 * time.Second

// runServe runs the editor until interrupted.
func runServe(args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	warnUnknownEnvVars(env.Stderr)
	cfg, err := resolveConfig(flags.common, flags.storage, loadEnvConfig())
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	timeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Export.Timeout = timeout
		cfg.Extract.Timeout = timeout
	}
	if flags.workersSet {
		cfg.Server.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg, env.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	sess, err := openSession(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	renderer, err := cargolist.NewRenderer()
	if err != nil {
		return err
	}
	exporter := newExporterPool(cfg, logger, env)
	defer func() { _ = exporter.Close() }()

	srv := newServer(serverOptions{
		Editor:   sess.editor,
		Renderer: renderer,
		Exporter: exporter,
		Extractor: func(ctx context.Context) (cargolist.Extractor, error) {
			return env.openExtractor(ctx, cfg)
		},
		ImportTimeout: extractTimeout(cfg),
		FontsURL:      pageFontsURL(cfg),
		Logger:        logger,
	})

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}
	return serveUntilDone(ctx, ln, srv.routes(), logger, env)
}

// newExporterPool spreads editor downloads over server.workers exporters,
// each built by env.openExporter on first use. One worker keeps a single
// export in flight.
func newExporterPool(cfg *config.Config, logger *slog.Logger, env *Environment) *cargolist.ExporterPool {
	size := cargolist.ResolvePoolSize(cfg.Server.Workers)
	logger.Debug("exporter pool", slog.Int("size", size))
	return cargolist.NewExporterPool(size, func() (cargolist.DocumentExporter, error) {
		return env.openExporter(cfg, logger)
	})
}

// serveUntilDone serves handler on ln until ctx is canceled, then shuts
// down gracefully.
func serveUntilDone(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger, env *Environment) error {
	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	url := "http://" + ln.Addr().String() + "/"
	fmt.Fprintf(env.Stdout, "Editor running at %s (Ctrl+C to stop)\n", url)
	logger.Info("editor started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("editor stopped")
	return nil
}

// pageFontsURL returns the stylesheet linked by the editor page.
func pageFontsURL(cfg *config.Config) string {
	switch cfg.Export.FontsURL {
	case "":
		return cargolist.DefaultFontsURL
	case fontsNone:
		return ""
	}
	return cfg.Export.FontsURL
}

// usageErr marks flag parse errors as usage errors, keeping --help intact.
func usageErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
