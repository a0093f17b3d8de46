package cargolist

import (
	"fmt"
	"strconv"
	"strings"
)

// Slice names the part of the document a field belongs to.
type Slice string

const (
	SliceHeader Slice = "header"
	SliceFooter Slice = "footer"
	SliceTable  Slice = "table"
)

// Header and footer field names, as used in FieldRef and JSON.
const (
	FieldCompanyName = "companyName"
	FieldAddress     = "address"
	FieldTagline     = "tagline"
	FieldMobile      = "mobile"
	FieldListTitle   = "listTitle"
	FieldWarning     = "warning"
	FieldExamples    = "examples"
)

// FieldRef addresses one editable text field of a document.
//
//	header.<name>
//	footer.<name>
//	table.<rowID>.<column>
type FieldRef struct {
	Slice  Slice
	Name   string // header or footer field name
	RowID  int    // table only
	Column Column // table only
}

// HeaderRef returns the reference of a header field.
func HeaderRef(name string) FieldRef { return FieldRef{Slice: SliceHeader, Name: name} }

// FooterRef returns the reference of a footer field.
func FooterRef(name string) FieldRef { return FieldRef{Slice: SliceFooter, Name: name} }

// CellRef returns the reference of a table cell.
func CellRef(rowID int, c Column) FieldRef {
	return FieldRef{Slice: SliceTable, RowID: rowID, Column: c}
}

// String formats r in the dotted form accepted by ParseFieldRef.
func (r FieldRef) String() string {
	if r.Slice == SliceTable {
		return fmt.Sprintf("%s.%d.%s", r.Slice, r.RowID, r.Column)
	}
	return string(r.Slice) + "." + r.Name
}

// ParseFieldRef parses the dotted form produced by FieldRef.String.
// It checks syntax and field names; row existence is checked on use.
func ParseFieldRef(s string) (FieldRef, error) {
	parts := strings.Split(s, ".")
	switch {
	case len(parts) == 2 && parts[0] == string(SliceHeader):
		if _, ok := headerFields[parts[1]]; ok {
			return HeaderRef(parts[1]), nil
		}
	case len(parts) == 2 && parts[0] == string(SliceFooter):
		if _, ok := footerFields[parts[1]]; ok {
			return FooterRef(parts[1]), nil
		}
	case len(parts) == 3 && parts[0] == string(SliceTable):
		id, err := strconv.Atoi(parts[1])
		if err != nil || id < 1 {
			return FieldRef{}, fmt.Errorf("%w: %q: invalid row id", ErrUnknownField, s)
		}
		c := Column(parts[2])
		if c.Valid() {
			return CellRef(id, c), nil
		}
	}
	return FieldRef{}, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

type (
	headerAccess struct {
		get func(HeaderState) string
		set func(*HeaderState, string)
	}
	footerAccess struct {
		get func(FooterState) string
		set func(*FooterState, string)
	}
)

var headerFields = map[string]headerAccess{
	FieldCompanyName: {
		get: func(h HeaderState) string { return h.CompanyName },
		set: func(h *HeaderState, v string) { h.CompanyName = v },
	},
	FieldAddress: {
		get: func(h HeaderState) string { return h.Address },
		set: func(h *HeaderState, v string) { h.Address = v },
	},
	FieldTagline: {
		get: func(h HeaderState) string { return h.Tagline },
		set: func(h *HeaderState, v string) { h.Tagline = v },
	},
	FieldMobile: {
		get: func(h HeaderState) string { return h.Mobile },
		set: func(h *HeaderState, v string) { h.Mobile = v },
	},
	FieldListTitle: {
		get: func(h HeaderState) string { return h.ListTitle },
		set: func(h *HeaderState, v string) { h.ListTitle = v },
	},
}

var footerFields = map[string]footerAccess{
	FieldWarning: {
		get: func(f FooterState) string { return f.Warning },
		set: func(f *FooterState, v string) { f.Warning = v },
	},
	FieldExamples: {
		get: func(f FooterState) string { return f.Examples },
		set: func(f *FooterState, v string) { f.Examples = v },
	},
}

// Value returns the text addressed by r in d.
func (d Document) Value(r FieldRef) (string, error) {
	switch r.Slice {
	case SliceHeader:
		if a, ok := headerFields[r.Name]; ok {
			return a.get(d.Header), nil
		}
	case SliceFooter:
		if a, ok := footerFields[r.Name]; ok {
			return a.get(d.Footer), nil
		}
	case SliceTable:
		if !r.Column.Valid() {
			break
		}
		row, ok := FindRow(d.Rows, r.RowID)
		if !ok {
			return "", fmt.Errorf("%w: %d", ErrRowNotFound, r.RowID)
		}
		return row.Get(r.Column), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, r)
}

// KeyAction tells the browser how to handle a key press in a field.
type KeyAction int

const (
	// KeyPassThrough lets the key perform its default action.
	KeyPassThrough KeyAction = iota
	// KeyBlur suppresses the default action and removes focus, which commits.
	KeyBlur
	// KeyNewline lets the key insert a line break without committing.
	KeyNewline
)

// String returns the action name used by the browser script.
func (a KeyAction) String() string {
	switch a {
	case KeyBlur:
		return "blur"
	case KeyNewline:
		return "newline"
	default:
		return "pass"
	}
}

// Key describes a key press inside an editable field.
type Key struct {
	Name  string // DOM KeyboardEvent.key
	Shift bool
}

// Field is the commit unit behind one editable text slot.
// It holds no edit buffer: Value always reports external state.
type Field struct {
	ref    FieldRef
	get    func() string
	commit func(string)
}

// NewField builds a Field from a getter of the committed value and a commit
// callback.
func NewField(ref FieldRef, get func() string, commit func(string)) *Field {
	return &Field{ref: ref, get: get, commit: commit}
}

// Ref returns the address of the field.
func (f *Field) Ref() FieldRef { return f.ref }

// Value returns the latest committed value.
func (f *Field) Value() string { return f.get() }

// KeyDown classifies a key press. It never commits.
func (f *Field) KeyDown(k Key) KeyAction {
	if k.Name != "Enter" {
		return KeyPassThrough
	}
	if k.Shift {
		return KeyNewline
	}
	return KeyBlur
}

// Blur commits text when it differs from the committed value and reports
// whether a commit happened.
func (f *Field) Blur(text string) bool {
	if text == f.get() {
		return false
	}
	f.commit(text)
	return true
}
