package cargolist

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cargolist/internal/fileutil"
	"github.com/alnah/go-cargolist/internal/process"
)

// captureViewportWidth keeps the desktop grid layout while rasterizing.
const (
	captureViewportWidth  = 1024
	captureViewportHeight = 1400
)

// regionSelector locates the document region on a rendered page.
const regionSelector = "#printable-document"

// pageRenderer abstracts the headless browser so export can be tested
// without Chrome.
type pageRenderer interface {
	// Screenshot loads htmlContent and captures the document region.
	Screenshot(ctx context.Context, htmlContent string, shot screenshotOptions) ([]byte, error)
	// PrintPDF loads htmlContent and prints it to PDF.
	PrintPDF(ctx context.Context, htmlContent string, opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// screenshotOptions selects the raster format of a region capture.
type screenshotOptions struct {
	Format  proto.PageCaptureScreenshotFormat
	Quality int     // JPEG only
	Scale   float64 // device scale factor
}

// rodRenderer implements pageRenderer with go-rod.
// Rod downloads Chromium on first use when no browser is configured.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners have no usable sandbox.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close shuts the browser down and kills any helper process left behind.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillTree(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// open writes htmlContent to a temp file and loads it in a new page.
// The caller closes the page and runs cleanup.
func (r *rodRenderer) open(ctx context.Context, htmlContent string, scale float64) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			cleanup()
			return nil, nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	page = page.Context(ctx).Timeout(timeout)

	done := func() {
		_ = page.Close()
		cleanup()
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             captureViewportWidth,
		Height:            captureViewportHeight,
		DeviceScaleFactor: scale,
	}); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}
	if err := page.Navigate("file://" + tmpPath); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	// Web fonts finish after the load event.
	if _, err := page.Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: waiting for fonts: %v", ErrPageLoad, err)
	}
	return page, done, nil
}

// Screenshot captures the document region of htmlContent.
func (r *rodRenderer) Screenshot(ctx context.Context, htmlContent string, shot screenshotOptions) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, done, err := r.open(ctx, htmlContent, shot.Scale)
	if err != nil {
		return nil, err
	}
	defer done()

	el, err := page.Element(regionSelector)
	if err != nil {
		return nil, fmt.Errorf("%w: locating %s: %v", ErrScreenshot, regionSelector, err)
	}
	data, err := el.Screenshot(shot.Format, shot.Quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return data, nil
}

// PrintPDF prints htmlContent to PDF with the given page settings.
func (r *rodRenderer) PrintPDF(ctx context.Context, htmlContent string, opts *proto.PagePrintToPDF) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, done, err := r.open(ctx, htmlContent, 1)
	if err != nil {
		return nil, err
	}
	defer done()

	reader, err := page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Compile-time interface check.
var _ pageRenderer = (*rodRenderer)(nil)
