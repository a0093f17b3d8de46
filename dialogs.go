package cargolist

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/alnah/go-cargolist/internal/assets"
)

// Customization form field names.
const (
	FormFontFamily        = "fontFamily"
	FormHeadingFontFamily = "headingFontFamily"
	FormAccentColor       = "accentColor"
	FormFontSize          = "fontSize"
	FormShowWatermark     = "show"
	FormTopArcText        = "topArcText"
	FormBottomArcText     = "bottomArcText"
	FormCentralText       = "centralText"
)

func parseDialog(loader assets.AssetLoader, name string) (*template.Template, error) {
	src, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s template: %w", name, err)
	}
	t, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return t, nil
}

type customizeView struct {
	Customization
	Style          template.CSS
	FontOptions    []FontOption
	FontSizePixels int
	ResetConfirm   string
	Error          string
}

// RenderCustomize writes the customization dialog filled with c.
// errMsg, when set, is shown above the form.
func (r *Renderer) RenderCustomize(w io.Writer, c Customization, errMsg string) error {
	view := customizeView{
		Customization:  c,
		Style:          template.CSS(sanitizeCSS(r.styles[assets.StyleEditor])),
		FontOptions:    FontOptions,
		FontSizePixels: FontSizePixels(c.Theme.FontSize),
		ResetConfirm:   ResetConfirmText,
		Error:          errMsg,
	}
	if err := r.customize.Execute(w, view); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// RenderPreview writes the print preview dialog. The document itself is
// loaded by the dialog's frame.
func (r *Renderer) RenderPreview(w io.Writer) error {
	view := struct{ Style template.CSS }{
		Style: template.CSS(sanitizeCSS(r.styles[assets.StyleEditor])),
	}
	if err := r.preview.Execute(w, view); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// CustomizationFromForm applies submitted form values over base. Absent
// text fields keep their base value; the watermark checkbox is read as
// unchecked when missing. A bare font size number becomes pixels.
func CustomizationFromForm(base Customization, form url.Values) Customization {
	c := base
	set := func(dst *string, key string) {
		if vs, ok := form[key]; ok && len(vs) > 0 {
			*dst = vs[0]
		}
	}

	set(&c.Header.CompanyName, FieldCompanyName)
	set(&c.Header.Address, FieldAddress)
	set(&c.Header.Tagline, FieldTagline)
	set(&c.Header.Mobile, FieldMobile)
	set(&c.Header.ListTitle, FieldListTitle)

	set(&c.Footer.Warning, FieldWarning)
	set(&c.Footer.Examples, FieldExamples)
	// Browsers submit textarea line breaks as CRLF.
	c.Footer.Warning = strings.ReplaceAll(c.Footer.Warning, "\r\n", "\n")
	c.Footer.Examples = strings.ReplaceAll(c.Footer.Examples, "\r\n", "\n")

	set(&c.Watermark.TopArcText, FormTopArcText)
	set(&c.Watermark.BottomArcText, FormBottomArcText)
	set(&c.Watermark.CentralText, FormCentralText)
	c.Watermark.Show = form.Get(FormShowWatermark) == "on"

	set(&c.Theme.FontFamily, FormFontFamily)
	set(&c.Theme.HeadingFontFamily, FormHeadingFontFamily)
	set(&c.Theme.AccentColor, FormAccentColor)
	if v := form.Get(FormFontSize); v != "" {
		c.Theme.FontSize = NormalizeFontSize(v)
	}
	return c
}
