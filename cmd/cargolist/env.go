package main

import (
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// openExporter and openExtractor are replaced by tests that must not
	// start a browser or reach an extraction service.
	openExporter  exporterFactory
	openExtractor extractorFactory
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:           time.Now,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		openExporter:  newExporter,
		openExtractor: newExtractor,
	}
}
