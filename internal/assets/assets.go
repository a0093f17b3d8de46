package assets

// Built-in asset names.
const (
	TemplateDocument  = "document"
	TemplatePage      = "page"
	TemplatePreview   = "preview"
	TemplateCustomize = "customize"

	StyleDocument = "document"
	StyleEditor   = "editor"
	StylePrint    = "print"

	ScriptEditor = "editor"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an HTML template by name using the embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadScript loads a JavaScript file by name using the embedded loader.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}
