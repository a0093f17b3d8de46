package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir writes artifacts into a local directory, replacing existing files.
type Dir struct {
	root string
}

// NewDir returns a sink rooted at root. An empty root means the current
// directory.
func NewDir(root string) *Dir {
	if root == "" {
		root = "."
	}
	return &Dir{root: root}
}

// Put writes data to root/name through a temp file and rename, so readers
// never observe a partial artifact.
func (d *Dir) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.root, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.root, ".cargolist-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- exported documents are meant to be shared
		return "", fmt.Errorf("setting artifact mode: %w", err)
	}

	dest := filepath.Join(d.root, name)
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("moving artifact into place: %w", err)
	}
	return dest, nil
}

// validateName rejects names that would escape the sink root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
