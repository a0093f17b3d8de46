package cargolist

import (
	"html/template"
	"strings"
)

// ScreenOnlyClass marks elements that exist only on the interactive page.
// Print and export surfaces hide everything carrying it.
const ScreenOnlyClass = "no-print"

// editableClass is added to every contenteditable cell.
const editableClass = "editable-cell"

// CellSpec describes one text slot of the document.
type CellSpec struct {
	Ref   FieldRef
	Value string
	Tag   string // div, p, h1, h2 or span
	Class string
	Style string // pre-sanitized inline CSS
}

// TextCell turns a CellSpec into markup. The renderer selects one
// implementation per render call and never inspects the mode per cell.
type TextCell interface {
	Render(c CellSpec) template.HTML
}

var allowedCellTags = map[string]bool{"div": true, "p": true, "h1": true, "h2": true, "span": true}

func cellTag(tag string) string {
	if allowedCellTags[tag] {
		return tag
	}
	return "div"
}

// staticCell renders the value as plain markup.
type staticCell struct{}

func (staticCell) Render(c CellSpec) template.HTML {
	var b strings.Builder
	tag := cellTag(c.Tag)
	openCellTag(&b, tag, c.Class, c.Style)
	b.WriteString(">")
	b.WriteString(template.HTMLEscapeString(c.Value))
	b.WriteString("</" + tag + ">")
	return template.HTML(b.String())
}

// editableCell renders the value inside a contenteditable element wired to
// its field reference. Layout classes and styles match staticCell.
type editableCell struct{}

func (editableCell) Render(c CellSpec) template.HTML {
	var b strings.Builder
	tag := cellTag(c.Tag)
	class := editableClass
	if c.Class != "" {
		class += " " + c.Class
	}
	openCellTag(&b, tag, class, c.Style)
	b.WriteString(` contenteditable="true" spellcheck="false" data-field="`)
	b.WriteString(template.HTMLEscapeString(c.Ref.String()))
	b.WriteString(`">`)
	b.WriteString(template.HTMLEscapeString(c.Value))
	b.WriteString("</" + tag + ">")
	return template.HTML(b.String())
}

func openCellTag(b *strings.Builder, tag, class, style string) {
	b.WriteString("<" + tag)
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(template.HTMLEscapeString(class))
		b.WriteString(`"`)
	}
	if style != "" {
		b.WriteString(` style="`)
		b.WriteString(template.HTMLEscapeString(style))
		b.WriteString(`"`)
	}
}

// Compile-time interface checks.
var (
	_ TextCell = staticCell{}
	_ TextCell = editableCell{}
)
