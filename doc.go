// Package cargolist edits and exports the Balaka cargo list: a branded,
// single-page document made of a company header, a four-column item table
// and a footer, with a circular seal used as logo and watermark.
//
// # Quick Start
//
// Open the slice stores, create an editor and render the document:
//
//	stores := cargolist.NewStores(kv.NewMemory(), "", logger)
//	ed := cargolist.NewEditor(ctx, stores, logger)
//
//	r, err := cargolist.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html, err := r.RenderPageString(ed.Document(), cargolist.PageOptions{
//	    Mode:   cargolist.ModeEditable,
//	    Chrome: true,
//	})
//
// # State
//
// A Document is split into five slices (header, rows, footer, watermark,
// theme). Each slice is persisted under its own key on every change and
// loaded back at startup; unreadable stored values fall back to defaults.
//
// # Editing
//
// Every editable text slot is addressed by a FieldRef such as
// "header.companyName" or "table.5.quantity". Editor.Commit applies the
// text of a slot when it leaves focus, only if it differs from the stored
// value. Rows carry a stable id, so edits and deletes target the right row
// regardless of position.
//
// Header, footer, watermark and theme are edited in bulk through a Panel,
// which stages changes until Save.
//
// # Rendering and Export
//
// Renderer produces the same markup in two modes: editable cells for the
// interactive page and static cells for print and export. Screen-only
// controls carry ScreenOnlyClass and are hidden on output surfaces.
//
// Exporter rasterizes the document region with headless Chrome:
//
//   - PDF: JPEG at twice the device scale, laid out on A4 pages
//   - PNG: lossless capture at three times the device scale
//
// # Image Import
//
// Editor.ImportImage replaces the table with the items an Extractor reads
// from a photo of a handwritten list. See the internal/extract package for
// the AI-backed extractors.
//
// # Error Handling
//
// Errors wrap the sentinels declared in errors.go; match them with
// errors.Is:
//
//	if errors.Is(err, cargolist.ErrImportInProgress) {
//	    // retry after the import finishes
//	}
package cargolist
