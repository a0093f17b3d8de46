package cargolist

import "errors"

// Sentinel errors for library operations.
var (
	// Addressing errors.
	ErrUnknownField = errors.New("unknown field")
	ErrRowNotFound  = errors.New("row not found")

	// Editor state errors.
	ErrImportInProgress  = errors.New("image import in progress")
	ErrPanelClosed       = errors.New("customization panel is closed")
	ErrResetNotConfirmed = errors.New("reset requires confirmation")

	// Import errors.
	ErrImport     = errors.New("image import failed")
	ErrEmptyImage = errors.New("image data cannot be empty")

	// Export errors.
	ErrExport         = errors.New("export failed")
	ErrRender         = errors.New("document rendering failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScreenshot     = errors.New("screenshot capture failed")
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrPoolClosed     = errors.New("exporter pool is closed")
)
