package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed templates/*.html
var templates embed.FS

//go:embed scripts/*.js
var scripts embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readAsset(styles, "styles/", name, ".css", ErrStyleNotFound)
}

// LoadTemplate loads an HTML template by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readAsset(templates, "templates/", name, ".html", ErrTemplateNotFound)
}

// LoadScript loads a script by name.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return readAsset(scripts, "scripts/", name, ".js", ErrScriptNotFound)
}

func readAsset(fs embed.FS, dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fs.ReadFile(dir + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
