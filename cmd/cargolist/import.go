package main

import (
	"context"
	"fmt"
	"os"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/fileutil"
)

// runImport replaces the stored table with the items read from a photo.
func runImport(args []string, env *Environment) error {
	flags, positional, err := parseImportFlags(args, env.Stderr)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: import takes exactly one image path", ErrUsage)
	}
	path := positional[0]

	cfg, log, err := loadCommand(flags.common, flags.storage, env)
	if err != nil {
		return err
	}
	if flags.provider != "" {
		cfg.Extract.Provider = flags.provider
	}
	if flags.model != "" {
		cfg.Extract.Model = flags.model
	}
	timeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Extract.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- image path is user-provided
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}
	mimeType, err := fileutil.ImageMIMEType(path, data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout(cfg))
	defer cancel()

	ex, err := env.openExtractor(ctx, cfg)
	if err != nil {
		return err
	}
	sess, err := openSession(ctx, cfg, true, log.Logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	log.printf(env.Stderr, "%s\n", cargolist.BusyText)
	n, err := sess.editor.ImportImage(ctx, ex, cargolist.Image{Data: data, MIMEType: mimeType})
	if err != nil {
		return err
	}
	log.printf(env.Stdout, "Imported %d items from %s\n", n, path)
	return nil
}
