package cargolist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/alnah/go-cargolist/internal/kv"
	"github.com/alnah/go-cargolist/internal/store"
)

// Stores binds each state slice to its storage key.
type Stores struct {
	Header    *store.Store[HeaderState]
	Rows      *store.Store[[]TableRow]
	Footer    *store.Store[FooterState]
	Watermark *store.Store[WatermarkState]
	Theme     *store.Store[ThemeState]
}

// NewStores creates the five slice stores on backend. Object slices are
// shallow-merged over their defaults on load; the row sequence is replaced
// wholesale. keyPrefix is prepended to every key.
func NewStores(backend kv.Backend, keyPrefix string, logger *slog.Logger) Stores {
	return Stores{
		Header:    store.New(backend, keyPrefix+KeyHeader, DefaultHeader(), store.ShallowMerge{}, logger),
		Rows:      store.New(backend, keyPrefix+KeyTable, DefaultRows(), store.Replace{}, logger),
		Footer:    store.New(backend, keyPrefix+KeyFooter, DefaultFooter(), store.ShallowMerge{}, logger),
		Watermark: store.New(backend, keyPrefix+KeyWatermark, DefaultWatermark(), store.ShallowMerge{}, logger),
		Theme:     store.New(backend, keyPrefix+KeyTheme, DefaultTheme(), store.ShallowMerge{}, logger),
	}
}

// Customization is the set of slices committed by the customization panel.
type Customization struct {
	Header    HeaderState
	Footer    FooterState
	Watermark WatermarkState
	Theme     ThemeState
}

// Editor owns the five document slices. Every transition runs under one
// lock, so events apply in arrival order, and every setter replaces the
// slice value instead of mutating it.
type Editor struct {
	mu        sync.Mutex
	doc       Document
	stores    Stores
	importing bool
	logger    *slog.Logger
}

// NewEditor loads every slice from its store and returns the Editor owning
// them. A nil logger discards output.
func NewEditor(ctx context.Context, stores Stores, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Editor{stores: stores, logger: logger}
	e.doc = Document{
		Header:    stores.Header.Load(ctx),
		Rows:      cloneRows(stores.Rows.Load(ctx)),
		Footer:    stores.Footer.Load(ctx),
		Watermark: stores.Watermark.Load(ctx),
		Theme:     stores.Theme.Load(ctx),
	}
	if e.doc.Rows == nil {
		e.doc.Rows = []TableRow{}
	}
	return e
}

// Document returns a copy of the current state.
func (e *Editor) Document() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Rows returns a copy of the row sequence.
func (e *Editor) Rows() []TableRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRows(e.doc.Rows)
}

// Customization returns the slices edited by the customization panel.
func (e *Editor) Customization() Customization {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Customization{
		Header:    e.doc.Header,
		Footer:    e.doc.Footer,
		Watermark: e.doc.Watermark,
		Theme:     e.doc.Theme,
	}
}

// Importing reports whether an image import is in flight.
func (e *Editor) Importing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.importing
}

// Field returns the commit unit for ref, wired to the matching setter.
func (e *Editor) Field(ref FieldRef) (*Field, error) {
	e.mu.Lock()
	_, err := e.doc.Value(ref)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	get := func() string {
		e.mu.Lock()
		defer e.mu.Unlock()
		v, _ := e.doc.Value(ref)
		return v
	}
	commit := func(v string) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if err := e.setLocked(ref, v); err != nil {
			e.logger.Warn("dropping field commit", "field", ref.String(), "error", err)
		}
	}
	return NewField(ref, get, commit), nil
}

// Commit applies a blur of the field at ref carrying text, atomically with
// respect to other events. It reports whether the value changed.
func (e *Editor) Commit(ref FieldRef, text string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.doc.Value(ref); err != nil {
		return false, err
	}
	if ref.Slice == SliceTable && e.importing {
		return false, ErrImportInProgress
	}

	var commitErr error
	f := NewField(ref,
		func() string { v, _ := e.doc.Value(ref); return v },
		func(v string) { commitErr = e.setLocked(ref, v) },
	)
	changed := f.Blur(text)
	return changed && commitErr == nil, commitErr
}

// setLocked writes v into the slot addressed by ref and persists the slice.
func (e *Editor) setLocked(ref FieldRef, v string) error {
	switch ref.Slice {
	case SliceHeader:
		a, ok := headerFields[ref.Name]
		if !ok {
			break
		}
		h := e.doc.Header
		a.set(&h, v)
		e.setHeaderLocked(h)
		return nil
	case SliceFooter:
		a, ok := footerFields[ref.Name]
		if !ok {
			break
		}
		f := e.doc.Footer
		a.set(&f, v)
		e.setFooterLocked(f)
		return nil
	case SliceTable:
		if e.importing {
			return ErrImportInProgress
		}
		rows, err := SetCell(e.doc.Rows, ref.RowID, ref.Column, v)
		if err != nil {
			return err
		}
		e.setRowsLocked(rows)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, ref)
}

// UpdateHeader sets one header field.
func (e *Editor) UpdateHeader(name, v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLocked(HeaderRef(name), v)
}

// UpdateFooter sets one footer field.
func (e *Editor) UpdateFooter(name, v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLocked(FooterRef(name), v)
}

// UpdateCell sets one column of the row with the given id.
func (e *Editor) UpdateCell(id int, c Column, v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLocked(CellRef(id, c), v)
}

// AddRow appends a placeholder row with id max+1 and returns it.
func (e *Editor) AddRow() (TableRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.importing {
		return TableRow{}, ErrImportInProgress
	}
	rows, row := AppendRow(e.doc.Rows)
	e.setRowsLocked(rows)
	e.logger.Debug("row added", "id", row.ID)
	return row, nil
}

// DeleteRow removes the row with the given id. Other rows keep their ids
// and relative order.
func (e *Editor) DeleteRow(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.importing {
		return ErrImportInProgress
	}
	rows, err := RemoveRow(e.doc.Rows, id)
	if err != nil {
		return err
	}
	e.setRowsLocked(rows)
	e.logger.Debug("row deleted", "id", id)
	return nil
}

// ApplyCustomization replaces header, footer, watermark and theme in one
// step.
func (e *Editor) ApplyCustomization(c Customization) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setHeaderLocked(c.Header)
	e.setFooterLocked(c.Footer)
	e.setWatermarkLocked(c.Watermark)
	e.setThemeLocked(c.Theme)
	e.logger.Info("customization applied")
}

// ResetToDefaults replaces all five slices, the rows included, with the
// built-in defaults.
func (e *Editor) ResetToDefaults() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.importing {
		return ErrImportInProgress
	}
	def := DefaultDocument()
	e.setHeaderLocked(def.Header)
	e.setRowsLocked(def.Rows)
	e.setFooterLocked(def.Footer)
	e.setWatermarkLocked(def.Watermark)
	e.setThemeLocked(def.Theme)
	e.logger.Info("document reset to defaults")
	return nil
}

// Each setter swaps the slice value, then writes it through. The store
// logs and drops write failures.

func (e *Editor) setHeaderLocked(h HeaderState) {
	e.doc.Header = h
	e.stores.Header.Save(context.Background(), h)
}

func (e *Editor) setFooterLocked(f FooterState) {
	e.doc.Footer = f
	e.stores.Footer.Save(context.Background(), f)
}

func (e *Editor) setWatermarkLocked(w WatermarkState) {
	e.doc.Watermark = w
	e.stores.Watermark.Save(context.Background(), w)
}

func (e *Editor) setThemeLocked(t ThemeState) {
	e.doc.Theme = t
	e.stores.Theme.Save(context.Background(), t)
}

func (e *Editor) setRowsLocked(rows []TableRow) {
	e.doc.Rows = rows
	e.stores.Rows.Save(context.Background(), rows)
}
