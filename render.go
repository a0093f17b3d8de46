package cargolist

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alnah/go-cargolist/internal/assets"
)

// RenderMode selects the TextCell implementation used by a render call.
type RenderMode int

const (
	// ModeEditable renders contenteditable cells and screen-only controls.
	ModeEditable RenderMode = iota
	// ModeStatic renders plain cells for print and export surfaces.
	ModeStatic
)

// String returns the mode name.
func (m RenderMode) String() string {
	if m == ModeStatic {
		return "static"
	}
	return "editable"
}

func (m RenderMode) cell() TextCell {
	if m == ModeStatic {
		return staticCell{}
	}
	return editableCell{}
}

// Renderer turns a Document into HTML. It performs no I/O other than
// writing to the writer it is given, so identical inputs yield identical
// bytes.
type Renderer struct {
	region    map[RenderMode]*template.Template
	page      *template.Template
	customize *template.Template
	preview   *template.Template
	styles    map[string]string
	script    string
}

// NewRenderer creates a Renderer backed by the embedded assets.
func NewRenderer() (*Renderer, error) {
	return newRenderer(assets.NewEmbeddedLoader())
}

func newRenderer(loader assets.AssetLoader) (*Renderer, error) {
	regionSrc, err := loader.LoadTemplate(assets.TemplateDocument)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	pageSrc, err := loader.LoadTemplate(assets.TemplatePage)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}

	// "cell" is rebound per mode on each clone.
	base, err := template.New(assets.TemplateDocument).
		Funcs(template.FuncMap{"cell": staticCell{}.Render}).
		Parse(regionSrc)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}

	r := &Renderer{
		region: make(map[RenderMode]*template.Template, 2),
		styles: make(map[string]string, 3),
	}
	for _, mode := range []RenderMode{ModeEditable, ModeStatic} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning document template: %w", err)
		}
		r.region[mode] = t.Funcs(template.FuncMap{"cell": mode.cell().Render})
	}

	if r.page, err = template.New(assets.TemplatePage).Parse(pageSrc); err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	if r.customize, err = parseDialog(loader, assets.TemplateCustomize); err != nil {
		return nil, err
	}
	if r.preview, err = parseDialog(loader, assets.TemplatePreview); err != nil {
		return nil, err
	}

	for _, name := range []string{assets.StyleDocument, assets.StyleEditor, assets.StylePrint} {
		css, err := loader.LoadStyle(name)
		if err != nil {
			return nil, fmt.Errorf("loading %s style: %w", name, err)
		}
		r.styles[name] = css
	}
	if r.script, err = loader.LoadScript(assets.ScriptEditor); err != nil {
		return nil, fmt.Errorf("loading editor script: %w", err)
	}
	return r, nil
}

// Render writes the document region for doc in the given mode.
func (r *Renderer) Render(w io.Writer, doc Document, mode RenderMode) error {
	t, ok := r.region[mode]
	if !ok {
		return fmt.Errorf("%w: unknown mode %d", ErrRender, mode)
	}
	if err := t.Execute(w, newDocumentView(doc, mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// RenderString returns the document region for doc in the given mode.
func (r *Renderer) RenderString(doc Document, mode RenderMode) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc, mode); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PageOptions configures RenderPage.
type PageOptions struct {
	Mode     RenderMode
	Title    string
	FontsURL string // stylesheet link; empty omits it
	Chrome   bool   // editor controls, busy overlay and script
	Print    bool   // print preview and @page rules
	Busy     bool   // import in flight
	Alert    string // one-shot message shown by the editor page
	ExtraCSS string // appended after the built-in styles
}

// DefaultTitle is the page title of every rendered surface.
const DefaultTitle = "Balaka Cargo List"

// BusyText is shown while an image import is running.
const BusyText = "Analyzing image and extracting items..."

type pageView struct {
	Title     string
	FontsURL  string
	Styles    []template.CSS
	BodyClass string
	Chrome    bool
	Busy      bool
	BusyText  string
	Alert     string
	Region    template.HTML
	Script    template.JS
}

// RenderPage writes a complete HTML page wrapping the document region.
func (r *Renderer) RenderPage(w io.Writer, doc Document, opts PageOptions) error {
	region, err := r.RenderString(doc, opts.Mode)
	if err != nil {
		return err
	}

	styles := []string{r.styles[assets.StyleDocument], buildBodyCSS(doc.Theme)}
	if opts.Chrome {
		styles = append(styles, r.styles[assets.StyleEditor])
	}
	if opts.Print {
		styles = append(styles, r.styles[assets.StylePrint])
	}
	if opts.ExtraCSS != "" {
		styles = append(styles, opts.ExtraCSS)
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	view := pageView{
		Title:    title,
		FontsURL: opts.FontsURL,
		Chrome:   opts.Chrome,
		Busy:     opts.Busy,
		BusyText: BusyText,
		Alert:    opts.Alert,
		Region:   template.HTML(region),
	}
	if opts.Print {
		view.BodyClass = "print-surface"
	}
	for _, css := range styles {
		view.Styles = append(view.Styles, template.CSS(sanitizeCSS(css)))
	}
	if opts.Chrome {
		view.Script = template.JS(r.script)
	}

	if err := r.page.Execute(w, view); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// RenderPageString returns the page produced by RenderPage.
func (r *Renderer) RenderPageString(doc Document, opts PageOptions) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, doc, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// documentView is the template model of the document region.
type documentView struct {
	Editable     bool
	RegionStyle  template.CSS
	HeadingStyle template.CSS
	FooterStyle  template.CSS
	Accent       string
	Watermark    sealView
	Header       headerView
	Rows         []rowView
	Footer       footerView
}

type sealView struct {
	Show      bool
	TopArc    string
	BottomArc string
	Central   string
}

type headerView struct {
	CompanyName, Address, Tagline, Mobile, ListTitle CellSpec
}

type footerView struct {
	Warning, Examples CellSpec
}

type rowView struct {
	ID                          int
	Serial, Description         CellSpec
	Quantity, Remarks           CellSpec
	CardDescription, CardSerial CellSpec
	CardQuantity, CardRemarks   CellSpec
}

func newDocumentView(doc Document, mode RenderMode) documentView {
	heading := headingStyle(doc.Theme)
	h := doc.Header

	v := documentView{
		Editable:     mode == ModeEditable,
		RegionStyle:  template.CSS(regionStyle(doc.Theme)),
		HeadingStyle: template.CSS(heading),
		FooterStyle:  template.CSS(footerStyle(doc.Theme)),
		Accent:       safeAccentColor(doc.Theme.AccentColor),
		Watermark: sealView{
			Show:      doc.Watermark.Show,
			TopArc:    strings.ToUpper(doc.Watermark.TopArcText),
			BottomArc: strings.ToUpper(doc.Watermark.BottomArcText),
			Central:   doc.Watermark.CentralText,
		},
		Header: headerView{
			CompanyName: CellSpec{Ref: HeaderRef(FieldCompanyName), Value: h.CompanyName, Tag: "h1", Class: "company-name", Style: companyStyle(doc.Theme)},
			Address:     CellSpec{Ref: HeaderRef(FieldAddress), Value: h.Address, Tag: "p", Class: "company-line"},
			Tagline:     CellSpec{Ref: HeaderRef(FieldTagline), Value: h.Tagline, Tag: "p", Class: "company-line"},
			Mobile:      CellSpec{Ref: HeaderRef(FieldMobile), Value: h.Mobile, Tag: "p", Class: "company-mobile", Style: heading},
			ListTitle:   CellSpec{Ref: HeaderRef(FieldListTitle), Value: h.ListTitle, Tag: "h2", Class: "list-title-text", Style: heading},
		},
		Footer: footerView{
			Warning:  CellSpec{Ref: FooterRef(FieldWarning), Value: doc.Footer.Warning, Tag: "div", Class: "footer-warning"},
			Examples: CellSpec{Ref: FooterRef(FieldExamples), Value: doc.Footer.Examples, Tag: "div", Class: "footer-examples"},
		},
		Rows: make([]rowView, 0, len(doc.Rows)),
	}

	for _, row := range doc.Rows {
		spec := func(c Column, class string) CellSpec {
			return CellSpec{Ref: CellRef(row.ID, c), Value: row.Get(c), Tag: "div", Class: class}
		}
		v.Rows = append(v.Rows, rowView{
			ID:              row.ID,
			Serial:          spec(ColumnSerial, "cell center"),
			Description:     spec(ColumnDescription, "cell"),
			Quantity:        spec(ColumnQuantity, "cell"),
			Remarks:         spec(ColumnRemarks, "cell"),
			CardDescription: spec(ColumnDescription, "cell"),
			CardSerial:      spec(ColumnSerial, "cell card-serial-value"),
			CardQuantity:    spec(ColumnQuantity, "cell"),
			CardRemarks:     spec(ColumnRemarks, "cell"),
		})
	}
	return v
}
