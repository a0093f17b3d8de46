package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/config"
)

// loadCommand resolves config and logger for a one-shot command.
func loadCommand(common commonFlags, storage storageFlags, env *Environment) (*config.Config, *sessionLogger, error) {
	warnUnknownEnvVars(env.Stderr)
	cfg, err := resolveConfig(common, storage, loadEnvConfig())
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, env.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, &sessionLogger{Logger: logger, quiet: common.quiet}, nil
}

// runExport writes one artifact of the stored document to the sink.
func runExport(args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: export takes no arguments", ErrUsage)
	}
	format, err := cargolist.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	cfg, log, err := loadCommand(flags.common, flags.storage, env)
	if err != nil {
		return err
	}
	if flags.output != "" {
		cfg.Export.OutputDir = flags.output
	}
	if flags.sink != "" {
		cfg.Export.Sink = flags.sink
	}
	if flags.fontsURL != "" {
		cfg.Export.FontsURL = flags.fontsURL
	}
	timeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Export.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	sink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}
	sess, err := openSession(ctx, cfg, false, log.Logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	exporter, err := env.openExporter(cfg, log.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = exporter.Close() }()

	art, err := exporter.Export(ctx, sess.editor.Document(), format)
	if err != nil {
		return err
	}
	location, err := sink.Put(ctx, art.Name, art.ContentType, art.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	log.printf(env.Stdout, "Exported %s (%d bytes)\n", location, len(art.Data))
	return nil
}

// runPrint writes the standalone print surface to a file or stdout.
func runPrint(args []string, env *Environment) error {
	flags, positional, err := parsePrintFlags(args, env.Stderr)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: print takes no arguments", ErrUsage)
	}

	cfg, log, err := loadCommand(flags.common, flags.storage, env)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := openSession(ctx, cfg, false, log.Logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	exporter, err := env.openExporter(cfg, log.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = exporter.Close() }()

	page, err := exporter.PrintSurface(ctx, sess.editor.Document())
	if err != nil {
		return err
	}

	if flags.output == "" || flags.output == "-" {
		_, err := fmt.Fprint(env.Stdout, page)
		return err
	}
	if dir := filepath.Dir(flags.output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteArtifact, err)
		}
	}
	if err := os.WriteFile(flags.output, []byte(page), 0o644); err != nil { // #nosec G306 -- printable page is not secret
		return fmt.Errorf("%w: %w", ErrWriteArtifact, err)
	}
	log.printf(env.Stdout, "Wrote print surface to %s\n", flags.output)
	return nil
}

// runReset restores every slice to its default after --yes.
func runReset(args []string, env *Environment) error {
	flags, positional, err := parseResetFlags(args, env.Stderr)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: reset takes no arguments", ErrUsage)
	}

	cfg, log, err := loadCommand(flags.common, flags.storage, env)
	if err != nil {
		return err
	}
	if !flags.yes {
		fmt.Fprintln(env.Stderr, cargolist.ResetConfirmText)
		fmt.Fprintln(env.Stderr, "Run again with --yes to confirm.")
		return cargolist.ErrResetNotConfirmed
	}

	ctx := context.Background()
	sess, err := openSession(ctx, cfg, true, log.Logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := cargolist.OpenPanel(sess.editor).Reset(true); err != nil {
		return err
	}
	log.printf(env.Stdout, "Document reset to defaults\n")
	return nil
}
