package main

import (
	"errors"
	"os"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/artifact"
	"github.com/alnah/go-cargolist/internal/config"
	"github.com/alnah/go-cargolist/internal/extract"
	"github.com/alnah/go-cargolist/internal/fileutil"
	"github.com/alnah/go-cargolist/internal/kv"
)

// Exit codes for the cargolist CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, storage unreachable
	ExitBrowser = 4 // Browser/Chrome errors
	ExitImport  = 5 // Image extraction errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, cargolist.ErrBrowserConnect) ||
		errors.Is(err, cargolist.ErrPageCreate) ||
		errors.Is(err, cargolist.ErrPageLoad) ||
		errors.Is(err, cargolist.ErrPDFGeneration) ||
		errors.Is(err, cargolist.ErrScreenshot) {
		return ExitBrowser
	}

	// Extraction errors (exit 5)
	if errors.Is(err, cargolist.ErrImport) ||
		errors.Is(err, extract.ErrMissingAPIKey) ||
		errors.Is(err, extract.ErrRequest) {
		return ExitImport
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrNotImage) ||
		errors.Is(err, ErrOpenStorage) ||
		errors.Is(err, ErrWriteArtifact) ||
		errors.Is(err, ErrSessionLocked) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, cargolist.ErrUnknownFormat) ||
		errors.Is(err, cargolist.ErrResetNotConfirmed) ||
		errors.Is(err, extract.ErrUnknownProvider) ||
		errors.Is(err, kv.ErrUnknownDriver) ||
		errors.Is(err, artifact.ErrUnknownSink) ||
		errors.Is(err, artifact.ErrBucketNeeded) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
