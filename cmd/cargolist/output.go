package main

import (
	"fmt"
	"io"
	"log/slog"
)

// sessionLogger pairs the process logger with the --quiet switch that
// silences user-facing progress lines.
type sessionLogger struct {
	*slog.Logger
	quiet bool
}

// printf writes a progress line unless quiet.
func (l *sessionLogger) printf(w io.Writer, format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}
