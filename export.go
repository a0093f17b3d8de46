package cargolist

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// Format is an export artifact kind.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ParseFormat validates an export format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (use pdf, png or html)", ErrUnknownFormat, s)
}

// Artifact file names.
const (
	PDFFilename  = "balaka-cargo-list.pdf"
	PNGFilename  = "balaka-cargo-list.png"
	HTMLFilename = "balaka-cargo-list.html"
)

// Artifact is one exported file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Raster settings of the two export paths.
const (
	pdfRasterScale   = 2
	pdfJPEGQuality   = 98
	pngRasterScale   = 3
	exportBackground = "#ffffff"
)

// A4 portrait with 10/5/10/5 mm margins (top, right, bottom, left).
const (
	mmPerInch        = 25.4
	a4WidthMM        = 210.0
	a4HeightMM       = 297.0
	pdfMarginTopMM   = 10.0
	pdfMarginRightMM = 5.0
	pdfMarginBotMM   = 10.0
	pdfMarginLeftMM  = 5.0
)

// DefaultExportTimeout bounds one export.
const DefaultExportTimeout = 2 * time.Minute

// Exporter produces the print surface and the PDF and PNG artifacts.
// Exports run one at a time.
type Exporter struct {
	mu       sync.Mutex
	renderer *Renderer
	browser  pageRenderer
	fonts    fontSource
	fontsURL string
	timeout  time.Duration
	logger   *slog.Logger
}

// ExportOption configures an Exporter.
type ExportOption func(*exporterConfig)

type exporterConfig struct {
	timeout    time.Duration
	fontsURL   string
	httpClient *http.Client
	logger     *slog.Logger
	browser    pageRenderer
	fonts      fontSource
}

// WithExportTimeout sets the browser timeout of one export.
func WithExportTimeout(d time.Duration) ExportOption {
	return func(c *exporterConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFontsURL sets the font stylesheet linked by the print surface and
// embedded into PDF and PNG exports. An empty URL disables fonts.
func WithFontsURL(u string) ExportOption {
	return func(c *exporterConfig) { c.fontsURL = u }
}

// WithHTTPClient sets the client used to fetch the font stylesheet.
func WithHTTPClient(client *http.Client) ExportOption {
	return func(c *exporterConfig) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithExportLogger sets the exporter logger.
func WithExportLogger(l *slog.Logger) ExportOption {
	return func(c *exporterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewExporter creates an Exporter. The browser starts on the first PDF or
// PNG export; Close releases it.
func NewExporter(renderer *Renderer, opts ...ExportOption) *Exporter {
	cfg := exporterConfig{
		timeout:    DefaultExportTimeout,
		fontsURL:   DefaultFontsURL,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.browser == nil {
		cfg.browser = newRodRenderer(cfg.timeout)
	}
	if cfg.fonts == nil {
		cfg.fonts = &httpFontSource{url: cfg.fontsURL, client: cfg.httpClient, logger: cfg.logger}
	}
	return &Exporter{
		renderer: renderer,
		browser:  cfg.browser,
		fonts:    cfg.fonts,
		fontsURL: cfg.fontsURL,
		timeout:  cfg.timeout,
		logger:   cfg.logger,
	}
}

// Close releases the browser.
func (x *Exporter) Close() error {
	return x.browser.Close()
}

// PrintSurface returns a standalone page holding the static render plus
// the print rules: fixed page margins, exact colors, screen-only elements
// hidden.
func (x *Exporter) PrintSurface(_ context.Context, doc Document) (string, error) {
	return x.renderer.RenderPageString(doc, PageOptions{
		Mode:     ModeStatic,
		Title:    "Print Preview",
		FontsURL: x.fontsURL,
		Print:    true,
	})
}

// Export produces the artifact of the requested format. Failures wrap
// ErrExport.
func (x *Exporter) Export(ctx context.Context, doc Document, f Format) (Artifact, error) {
	switch f {
	case FormatPDF:
		data, err := x.PDF(ctx, doc)
		return Artifact{Name: PDFFilename, ContentType: "application/pdf", Data: data}, err
	case FormatPNG:
		data, err := x.PNG(ctx, doc)
		return Artifact{Name: PNGFilename, ContentType: "image/png", Data: data}, err
	case FormatHTML:
		page, err := x.PrintSurface(ctx, doc)
		if err != nil {
			return Artifact{}, fmt.Errorf("%w: %w", ErrExport, err)
		}
		// The saved file keeps its fonts when opened offline.
		page = injectCSS(page, x.fonts.FontCSS(ctx))
		return Artifact{Name: HTMLFilename, ContentType: "text/html; charset=utf-8", Data: []byte(page)}, nil
	}
	return Artifact{}, fmt.Errorf("%w: %w: %q", ErrExport, ErrUnknownFormat, f)
}

// PDF rasterizes the document region to JPEG and lays the raster out on A4
// pages with fixed margins.
func (x *Exporter) PDF(ctx context.Context, doc Document) ([]byte, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	raster, err := x.capture(ctx, doc, screenshotOptions{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: pdfJPEGQuality,
		Scale:   pdfRasterScale,
	})
	if err != nil {
		return nil, err
	}

	pages, err := paginateJPEG(raster, printableAspect(), pdfJPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrExport, ErrPDFGeneration, err)
	}
	pdf, err := x.browser.PrintPDF(ctx, rasterPagesHTML(pages), a4PrintOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	x.logger.Info("PDF exported", "pages", len(pages), "bytes", len(pdf))
	return pdf, nil
}

// PNG rasterizes the document region on a white background.
func (x *Exporter) PNG(ctx context.Context, doc Document) ([]byte, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	png, err := x.capture(ctx, doc, screenshotOptions{
		Format: proto.PageCaptureScreenshotFormatPng,
		Scale:  pngRasterScale,
	})
	if err != nil {
		return nil, err
	}
	x.logger.Info("PNG exported", "bytes", len(png))
	return png, nil
}

// capture renders the region with the export override applied and
// screenshots it. The override exists only in the rendered copy.
func (x *Exporter) capture(ctx context.Context, doc Document, shot screenshotOptions) ([]byte, error) {
	fontCSS := x.fonts.FontCSS(ctx)

	page, err := x.renderer.RenderPageString(doc, PageOptions{
		Mode:     ModeEditable,
		ExtraCSS: buildExportCSS(fontCSS, exportBackground),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	data, err := x.browser.Screenshot(ctx, page, shot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	return data, nil
}

// printableAspect is the height/width ratio of the A4 area inside margins.
func printableAspect() float64 {
	w := a4WidthMM - pdfMarginLeftMM - pdfMarginRightMM
	h := a4HeightMM - pdfMarginTopMM - pdfMarginBotMM
	return h / w
}

func a4PrintOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(a4WidthMM / mmPerInch),
		PaperHeight:     floatPtr(a4HeightMM / mmPerInch),
		MarginTop:       floatPtr(pdfMarginTopMM / mmPerInch),
		MarginRight:     floatPtr(pdfMarginRightMM / mmPerInch),
		MarginBottom:    floatPtr(pdfMarginBotMM / mmPerInch),
		MarginLeft:      floatPtr(pdfMarginLeftMM / mmPerInch),
		PrintBackground: true,
	}
}

// paginateJPEG cuts a raster into page-sized slices. aspect is the page
// height/width ratio; every slice but the last is exactly one page tall.
func paginateJPEG(data []byte, aspect float64, quality int) ([][]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding raster: %w", err)
	}
	b := img.Bounds()
	pageHeight := int(float64(b.Dx()) * aspect)
	if pageHeight <= 0 {
		return nil, fmt.Errorf("invalid raster width %d", b.Dx())
	}
	if b.Dy() <= pageHeight {
		return [][]byte{data}, nil
	}

	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("raster type %T cannot be sliced", img)
	}

	var pages [][]byte
	for top := b.Min.Y; top < b.Max.Y; top += pageHeight {
		bottom := min(top+pageHeight, b.Max.Y)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, sub.SubImage(image.Rect(b.Min.X, top, b.Max.X, bottom)), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encoding page: %w", err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

var rasterPagesTemplate = template.Must(template.New("raster").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><style>
html, body { margin: 0; padding: 0; background: #ffffff; }
.sheet { page-break-after: always; break-after: page; }
.sheet:last-child { page-break-after: auto; break-after: auto; }
.sheet img { display: block; width: 100%; }
</style></head><body>
{{- range .}}
<div class="sheet"><img src="{{.}}" alt=""></div>
{{- end}}
</body></html>`))

// rasterPagesHTML lays out one JPEG slice per printed page.
func rasterPagesHTML(pages [][]byte) string {
	srcs := make([]template.URL, 0, len(pages))
	for _, p := range pages {
		srcs = append(srcs, template.URL("data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(p)))
	}
	var buf bytes.Buffer
	// The template and its inputs are fixed; Execute cannot fail here.
	_ = rasterPagesTemplate.Execute(&buf, srcs)
	return buf.String()
}

// floatPtr returns a pointer to v.
func floatPtr(v float64) *float64 {
	return &v
}
