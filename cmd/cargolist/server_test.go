package main

// Notes:
// - The server is exercised through httptest against a memory backend, the
//   real renderer, a fake exporter and extractor functions. No browser or
//   network is involved.
// - The blocking import case checks the busy state from the HTTP side; the
//   Editor-level guarantees are covered in the root package.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/kv"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// fakeExporter returns canned artifacts and records requested formats.
type fakeExporter struct {
	mu      sync.Mutex
	formats []cargolist.Format
	docs    []cargolist.Document
	err     error
	closed  bool
}

func (f *fakeExporter) Export(_ context.Context, doc cargolist.Document, format cargolist.Format) (cargolist.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formats = append(f.formats, format)
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return cargolist.Artifact{}, f.err
	}
	switch format {
	case cargolist.FormatPNG:
		return cargolist.Artifact{Name: cargolist.PNGFilename, ContentType: "image/png", Data: []byte("PNG")}, nil
	case cargolist.FormatHTML:
		return cargolist.Artifact{Name: cargolist.HTMLFilename, ContentType: "text/html; charset=utf-8", Data: []byte("<html></html>")}, nil
	default:
		return cargolist.Artifact{Name: cargolist.PDFFilename, ContentType: "application/pdf", Data: []byte("%PDF-1.4")}, nil
	}
}

func (f *fakeExporter) PrintSurface(_ context.Context, doc cargolist.Document) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return "<html><body>print " + doc.Header.CompanyName + "</body></html>", nil
}

func (f *fakeExporter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeExporter) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type testServer struct {
	srv      *server
	editor   *cargolist.Editor
	backend  *kv.Memory
	exporter *fakeExporter
	http     *httptest.Server
}

func newTestServer(t *testing.T, ex cargolist.Extractor) *testServer {
	t.Helper()

	backend := kv.NewMemory()
	editor := cargolist.NewEditor(context.Background(), cargolist.NewStores(backend, "", nil), nil)
	renderer, err := cargolist.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	exporter := &fakeExporter{}
	srv := newServer(serverOptions{
		Editor:   editor,
		Renderer: renderer,
		Exporter: exporter,
		Extractor: func(context.Context) (cargolist.Extractor, error) {
			if ex == nil {
				return nil, errors.New("no extractor configured")
			}
			return ex, nil
		},
		ImportTimeout: 5 * time.Second,
	})
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return &testServer{srv: srv, editor: editor, backend: backend, exporter: exporter, http: ts}
}

// client does not follow redirects so 303 responses can be asserted.
func (ts *testServer) client() *http.Client {
	c := ts.http.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.http.URL+path, body)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.client().Do(req)
	if err != nil {
		t.Fatalf("%s %s error: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	return ts.do(t, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func multipartImage(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("CreateFormFile() error: %v", err)
	}
	_, _ = part.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart Close() error: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// pngBytes is enough for content sniffing to report image/png.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func items(n int) []cargolist.ExtractedItem {
	out := make([]cargolist.ExtractedItem, n)
	for i := range out {
		out[i] = cargolist.ExtractedItem{Description: "Item " + string(rune('A'+i)), Quantity: "1"}
	}
	return out
}

// ---------------------------------------------------------------------------
// TestServer_Editor - Page and field commits
// ---------------------------------------------------------------------------

func TestServer_EditorPage(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	resp, body := ts.do(t, http.MethodGet, "/", nil, "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{`data-field="header.companyName"`, "Add Item", `href="/customize"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestServer_CommitField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ref        string
		body       string
		wantStatus int
		wantChange bool
	}{
		{name: "header field", ref: "header.companyName", body: `{"value":"New Co"}`, wantStatus: http.StatusOK, wantChange: true},
		{name: "cell", ref: "table.3.quantity", body: `{"value":"7"}`, wantStatus: http.StatusOK, wantChange: true},
		{name: "unchanged value", ref: "header.companyName", body: `{"value":"Balaka International Travels"}`, wantStatus: http.StatusOK},
		{name: "unknown field", ref: "header.nope", body: `{"value":"x"}`, wantStatus: http.StatusNotFound},
		{name: "missing row", ref: "table.99.remarks", body: `{"value":"x"}`, wantStatus: http.StatusNotFound},
		{name: "bad json", ref: "footer.warning", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, nil)
			resp, body := ts.do(t, http.MethodPost, "/api/fields/"+tt.ref, strings.NewReader(tt.body), "application/json")
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got fieldResponse
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got.Changed != tt.wantChange {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChange)
			}
			ref, _ := cargolist.ParseFieldRef(tt.ref)
			if v, _ := ts.editor.Document().Value(ref); v != got.Value {
				t.Errorf("editor value %q, response value %q", v, got.Value)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestServer_Rows - Add and delete
// ---------------------------------------------------------------------------

func TestServer_AddAndDeleteRows(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp, _ := ts.do(t, http.MethodDelete, "/api/rows/5", nil, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}

	// Form post from the page redirects back to the editor.
	resp, _ = ts.postForm(t, "/api/rows", url.Values{})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("POST status = %d, location %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	rows := ts.editor.Rows()
	if len(rows) != 21 {
		t.Fatalf("len(rows) = %d, want 21", len(rows))
	}
	if last := rows[len(rows)-1]; last.ID != 22 {
		t.Errorf("new row id = %d, want 22", last.ID)
	}
	if _, ok := cargolist.FindRow(rows, 5); ok {
		t.Error("row 5 still present")
	}
}

func TestServer_AddRowJSON(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodPost, ts.http.URL+"/api/rows", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := ts.client().Do(req)
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var row cargolist.TableRow
	if err := json.NewDecoder(resp.Body).Decode(&row); err != nil {
		t.Fatalf("decoding row: %v", err)
	}
	if row.ID != 22 || row.Description != "New Item" {
		t.Errorf("row = %+v", row)
	}
}

func TestServer_DeleteRowErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "missing row", path: "/api/rows/99", want: http.StatusNotFound},
		{name: "non numeric id", path: "/api/rows/abc", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, nil)
			resp, _ := ts.do(t, http.MethodDelete, tt.path, nil, "")
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if len(ts.editor.Rows()) != 21 {
				t.Error("rows changed")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestServer_Import - Photo upload
// ---------------------------------------------------------------------------

func TestServer_Import(t *testing.T) {
	t.Parallel()

	seen := make(chan cargolist.Image, 1)
	ex := cargolist.ExtractorFunc(func(_ context.Context, img cargolist.Image) ([]cargolist.ExtractedItem, error) {
		seen <- img
		return items(3), nil
	})
	ts := newTestServer(t, ex)

	body, ct := multipartImage(t, "list.png", pngBytes)
	resp, out := ts.do(t, http.MethodPost, "/api/import", body, ct)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, out)
	}

	var res importResponse
	if err := json.Unmarshal([]byte(out), &res); err != nil || res.Rows != 3 {
		t.Fatalf("response = %q (%v)", out, err)
	}
	if got := <-seen; got.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q", got.MIMEType)
	}
	rows := ts.editor.Rows()
	if len(rows) != 3 || rows[2].ID != 3 || rows[1].Serial != "2" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestServer_ImportErrors(t *testing.T) {
	t.Parallel()

	failing := cargolist.ExtractorFunc(func(context.Context, cargolist.Image) ([]cargolist.ExtractedItem, error) {
		return nil, errors.New("model unavailable")
	})

	tests := []struct {
		name     string
		ex       cargolist.Extractor
		filename string
		data     []byte
		want     int
	}{
		{name: "extractor fails", ex: failing, filename: "list.png", data: pngBytes, want: http.StatusBadGateway},
		{name: "no extractor", ex: nil, filename: "list.png", data: pngBytes, want: http.StatusServiceUnavailable},
		{name: "not an image", ex: failing, filename: "notes.txt", data: []byte("hello world"), want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, tt.ex)
			body, ct := multipartImage(t, tt.filename, tt.data)
			resp, _ := ts.do(t, http.MethodPost, "/api/import", body, ct)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if len(ts.editor.Rows()) != 21 {
				t.Error("table changed after failed import")
			}
			if ts.editor.Importing() {
				t.Error("busy flag left set")
			}
		})
	}
}

func TestServer_ImportMissingFile(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	resp, _ := ts.postForm(t, "/api/import", url.Values{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_ImportBusy(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	ex := cargolist.ExtractorFunc(func(context.Context, cargolist.Image) ([]cargolist.ExtractedItem, error) {
		close(started)
		<-release
		return items(2), nil
	})
	ts := newTestServer(t, ex)

	body, ct := multipartImage(t, "list.png", pngBytes)
	done := make(chan int, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodPost, ts.http.URL+"/api/import", body)
		req.Header.Set("Content-Type", ct)
		resp, err := ts.http.Client().Do(req)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()
	<-started

	resp, _ := ts.do(t, http.MethodDelete, "/api/rows/1", nil, "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("DELETE during import = %d, want 409", resp.StatusCode)
	}
	_, page := ts.do(t, http.MethodGet, "/", nil, "")
	if !strings.Contains(page, `class="busy-overlay no-print">`) {
		t.Error("editor page does not show the busy overlay")
	}

	close(release)
	if status := <-done; status != http.StatusOK {
		t.Errorf("import status = %d", status)
	}
	if n := len(ts.editor.Rows()); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
}

// ---------------------------------------------------------------------------
// TestServer_Customize - Panel routes
// ---------------------------------------------------------------------------

func TestServer_CustomizeSave(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp, page := ts.do(t, http.MethodGet, "/customize", nil, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(page, "Customize Document") {
		t.Fatalf("GET /customize = %d", resp.StatusCode)
	}

	form := url.Values{
		"companyName": {"New Co"},
		"fontSize":    {"18"},
		"accentColor": {"#112233"},
	}
	resp, _ = ts.postForm(t, "/customize/save", form)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("save status = %d", resp.StatusCode)
	}

	c := ts.editor.Customization()
	if c.Header.CompanyName != "New Co" {
		t.Errorf("CompanyName = %q", c.Header.CompanyName)
	}
	if c.Theme.FontSize != "18px" || c.Theme.AccentColor != "#112233" {
		t.Errorf("Theme = %+v", c.Theme)
	}
	if c.Watermark.Show {
		t.Error("unchecked watermark box must hide the watermark")
	}
	if c.Header.Address != cargolist.DefaultHeader().Address {
		t.Error("absent form field changed the address")
	}
}

func TestServer_CustomizeCancel(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	before := ts.editor.Customization()

	ts.do(t, http.MethodGet, "/customize", nil, "")
	resp, _ := ts.postForm(t, "/customize/cancel", url.Values{"companyName": {"New Co"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("cancel status = %d", resp.StatusCode)
	}
	if ts.editor.Customization() != before {
		t.Error("cancel changed the committed customization")
	}
}

func TestServer_CustomizeReset(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	if _, err := ts.editor.AddRow(); err != nil {
		t.Fatal(err)
	}
	if err := ts.editor.UpdateHeader(cargolist.FieldCompanyName, "Changed"); err != nil {
		t.Fatal(err)
	}

	resp, body := ts.postForm(t, "/customize/reset", url.Values{})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "Reset was not confirmed") {
		t.Fatalf("unconfirmed reset = %d", resp.StatusCode)
	}
	if len(ts.editor.Rows()) != 22 {
		t.Error("unconfirmed reset changed rows")
	}

	resp, _ = ts.postForm(t, "/customize/reset", url.Values{"confirm": {"yes"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("confirmed reset = %d", resp.StatusCode)
	}
	doc := ts.editor.Document()
	if len(doc.Rows) != 21 || doc.Header != cargolist.DefaultHeader() {
		t.Error("document not restored to defaults")
	}
}

// ---------------------------------------------------------------------------
// TestServer_Print / TestServer_Download - Export routes
// ---------------------------------------------------------------------------

func TestServer_Print(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	resp, body := ts.do(t, http.MethodGet, "/print", nil, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `src="/print/frame"`) {
		t.Errorf("GET /print = %d", resp.StatusCode)
	}
	resp, body = ts.do(t, http.MethodGet, "/print/frame", nil, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "print Balaka International Travels") {
		t.Errorf("GET /print/frame = %d %q", resp.StatusCode, body)
	}
}

func TestServer_Download(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		wantType string
		wantName string
	}{
		{path: "/download/pdf", wantType: "application/pdf", wantName: cargolist.PDFFilename},
		{path: "/download/png", wantType: "image/png", wantName: cargolist.PNGFilename},
		{path: "/download/html", wantType: "text/html; charset=utf-8", wantName: cargolist.HTMLFilename},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, nil)
			resp, _ := ts.do(t, http.MethodGet, tt.path, nil, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.wantType {
				t.Errorf("Content-Type = %q", ct)
			}
			if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, tt.wantName) {
				t.Errorf("Content-Disposition = %q", cd)
			}
		})
	}
}

func TestServer_DownloadErrors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	resp, _ := ts.do(t, http.MethodGet, "/download/gif", nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown format status = %d", resp.StatusCode)
	}

	ts.exporter.setErr(cargolist.ErrBrowserConnect)
	resp, body := ts.do(t, http.MethodGet, "/download/pdf", nil, "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("failed export status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Failed to generate PDF") {
		t.Errorf("body = %q", body)
	}
	if len(ts.editor.Rows()) != 21 {
		t.Error("failed export changed state")
	}
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	resp, body := ts.do(t, http.MethodGet, "/healthz", nil, "")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

// ---------------------------------------------------------------------------
// TestStatusFor - Error to status mapping
// ---------------------------------------------------------------------------

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{cargolist.ErrUnknownField, http.StatusNotFound},
		{cargolist.ErrRowNotFound, http.StatusNotFound},
		{cargolist.ErrImportInProgress, http.StatusConflict},
		{cargolist.ErrPanelClosed, http.StatusConflict},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
