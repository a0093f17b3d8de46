package cargolist

import (
	"fmt"
	"strconv"
)

// Column names a text column of TableRow.
type Column string

const (
	ColumnSerial      Column = "serial"
	ColumnDescription Column = "description"
	ColumnQuantity    Column = "quantity"
	ColumnRemarks     Column = "remarks"
)

// Columns lists the text columns in display order.
var Columns = []Column{ColumnSerial, ColumnDescription, ColumnQuantity, ColumnRemarks}

// newRowDescription is the placeholder text of an added row.
const newRowDescription = "New Item"

// Valid reports whether c names a TableRow text column.
func (c Column) Valid() bool {
	switch c {
	case ColumnSerial, ColumnDescription, ColumnQuantity, ColumnRemarks:
		return true
	}
	return false
}

// Get returns the value of column c in r.
func (r TableRow) Get(c Column) string {
	switch c {
	case ColumnSerial:
		return r.Serial
	case ColumnDescription:
		return r.Description
	case ColumnQuantity:
		return r.Quantity
	case ColumnRemarks:
		return r.Remarks
	}
	return ""
}

// With returns a copy of r with column c set to v.
func (r TableRow) With(c Column, v string) TableRow {
	switch c {
	case ColumnSerial:
		r.Serial = v
	case ColumnDescription:
		r.Description = v
	case ColumnQuantity:
		r.Quantity = v
	case ColumnRemarks:
		r.Remarks = v
	}
	return r
}

// NextRowID returns max(ids)+1, or 1 for an empty table.
// An id freed by deleting the highest row is handed out again.
func NextRowID(rows []TableRow) int {
	maxID := 0
	for _, r := range rows {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}

// AppendRow returns a new sequence with a placeholder row added at the end.
// The input is not modified.
func AppendRow(rows []TableRow) ([]TableRow, TableRow) {
	row := TableRow{
		ID:          NextRowID(rows),
		Serial:      strconv.Itoa(len(rows) + 1),
		Description: newRowDescription,
	}
	out := make([]TableRow, 0, len(rows)+1)
	out = append(out, rows...)
	return append(out, row), row
}

// RemoveRow returns a new sequence without the row with the given id.
// Other rows keep their ids and order.
func RemoveRow(rows []TableRow, id int) ([]TableRow, error) {
	idx := indexOfRow(rows, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, id)
	}
	out := make([]TableRow, 0, len(rows)-1)
	out = append(out, rows[:idx]...)
	return append(out, rows[idx+1:]...), nil
}

// SetCell returns a new sequence where column c of row id holds v.
func SetCell(rows []TableRow, id int, c Column, v string) ([]TableRow, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: column %q", ErrUnknownField, c)
	}
	idx := indexOfRow(rows, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, id)
	}
	out := cloneRows(rows)
	out[idx] = out[idx].With(c, v)
	return out, nil
}

// FindRow returns the row with the given id.
func FindRow(rows []TableRow, id int) (TableRow, bool) {
	idx := indexOfRow(rows, id)
	if idx < 0 {
		return TableRow{}, false
	}
	return rows[idx], true
}

func indexOfRow(rows []TableRow, id int) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
