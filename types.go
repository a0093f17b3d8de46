package cargolist

// TableRow is one line of the cargo list.
// ID is stable across edits; Serial is display text and is not derived
// from the row position.
type TableRow struct {
	ID          int    `json:"id"`
	Serial      string `json:"serial"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Remarks     string `json:"remarks"`
}

// HeaderState holds the company block and the list title.
type HeaderState struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Tagline     string `json:"tagline"`
	Mobile      string `json:"mobile"`
	ListTitle   string `json:"listTitle"`
}

// FooterState holds the two footer notes.
type FooterState struct {
	Warning  string `json:"warning"`
	Examples string `json:"examples"`
}

// WatermarkState configures the circular seal drawn behind the document and
// reused by the header logo.
type WatermarkState struct {
	TopArcText    string `json:"topArcText"`
	BottomArcText string `json:"bottomArcText"`
	CentralText   string `json:"centralText"`
	Show          bool   `json:"show"`
}

// ThemeState holds document-wide presentation settings.
// Font fields are CSS font-family values; they are not checked against
// FontOptions.
type ThemeState struct {
	FontFamily        string `json:"fontFamily"`
	HeadingFontFamily string `json:"headingFontFamily"`
	AccentColor       string `json:"accentColor"`
	FontSize          string `json:"fontSize"`
}

// Document aggregates the five state slices.
type Document struct {
	Header    HeaderState    `json:"header"`
	Rows      []TableRow     `json:"rows"`
	Footer    FooterState    `json:"footer"`
	Watermark WatermarkState `json:"watermark"`
	Theme     ThemeState     `json:"theme"`
}

// Clone returns a copy of d that shares no row storage with d.
func (d Document) Clone() Document {
	d.Rows = cloneRows(d.Rows)
	return d
}

func cloneRows(rows []TableRow) []TableRow {
	if rows == nil {
		return nil
	}
	out := make([]TableRow, len(rows))
	copy(out, rows)
	return out
}

// FontOption is one entry of the font selection list.
type FontOption struct {
	Value string // CSS font-family value
	Label string // display name
}

// FontOptions is the fixed list offered by the customization form.
var FontOptions = []FontOption{
	{Value: "'Hind Siliguri', sans-serif", Label: "Hind Siliguri (Default)"},
	{Value: "'Noto Sans Bengali', sans-serif", Label: "Noto Sans Bengali"},
	{Value: "'Noto Serif Bengali', serif", Label: "Sonali Bangla"},
	{Value: "'Roboto', sans-serif", Label: "Roboto"},
	{Value: "'Lato', sans-serif", Label: "Lato"},
	{Value: "'Times New Roman', serif", Label: "Times New Roman"},
}
