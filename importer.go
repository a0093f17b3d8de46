package cargolist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alnah/go-cargolist/internal/extract"
)

// Extraction types, shared with the provider implementations.
type (
	Extractor     = extract.Extractor
	ExtractorFunc = extract.ExtractorFunc
	Image         = extract.Image
	ExtractedItem = extract.Item
)

// RowsFromExtraction numbers extracted items 1..n in the order given. An
// item without a serial gets its position as serial text.
func RowsFromExtraction(items []ExtractedItem) []TableRow {
	rows := make([]TableRow, 0, len(items))
	for i, item := range items {
		serial := item.Serial
		if serial == "" {
			serial = strconv.Itoa(i + 1)
		}
		rows = append(rows, TableRow{
			ID:          i + 1,
			Serial:      serial,
			Description: item.Description,
			Quantity:    item.Quantity,
			Remarks:     item.Remarks,
		})
	}
	return rows
}

// ImportImage replaces the table with the items ex reads from img.
//
// While the call runs, table mutations fail with ErrImportInProgress and a
// second import is rejected. On any failure the table is left untouched and
// the error wraps ErrImport. It returns the new row count.
func (e *Editor) ImportImage(ctx context.Context, ex Extractor, img Image) (int, error) {
	if len(img.Data) == 0 {
		return 0, fmt.Errorf("%w: %w", ErrImport, ErrEmptyImage)
	}

	e.mu.Lock()
	if e.importing {
		e.mu.Unlock()
		return 0, fmt.Errorf("%w: %w", ErrImport, ErrImportInProgress)
	}
	e.importing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.importing = false
		e.mu.Unlock()
	}()

	e.logger.Info("importing image", "bytes", len(img.Data), "mime", img.MIMEType)
	items, err := ex.Extract(ctx, img)
	if err != nil {
		e.logger.Warn("image import failed", "error", err)
		return 0, fmt.Errorf("%w: %w", ErrImport, err)
	}

	rows := RowsFromExtraction(items)
	e.mu.Lock()
	e.setRowsLocked(rows)
	e.mu.Unlock()

	e.logger.Info("image imported", "rows", len(rows))
	return len(rows), nil
}
