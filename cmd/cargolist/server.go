package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/fileutil"
)

// maxImageSize bounds one uploaded photo.
const maxImageSize = 20 << 20

// User-facing messages.
const (
	importAlert    = "Failed to analyze image. Please ensure the image is clear and try again."
	busyAlert      = "An image import is in progress. Please wait."
	exportAlertFmt = "Failed to generate %s. Please try again."
)

// server routes browser events to the Editor. One server owns one Editor.
type server struct {
	editor        *cargolist.Editor
	renderer      *cargolist.Renderer
	exporter      documentExporter
	extractor     func(ctx context.Context) (cargolist.Extractor, error)
	importTimeout time.Duration
	fontsURL      string
	logger        *slog.Logger

	mu    sync.Mutex // guards panel and alert
	panel *cargolist.Panel
	alert string
}

// serverOptions configures newServer.
type serverOptions struct {
	Editor        *cargolist.Editor
	Renderer      *cargolist.Renderer
	Exporter      documentExporter
	Extractor     func(ctx context.Context) (cargolist.Extractor, error)
	ImportTimeout time.Duration
	FontsURL      string
	Logger        *slog.Logger
}

func newServer(opts serverOptions) *server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &server{
		editor:        opts.Editor,
		renderer:      opts.Renderer,
		exporter:      opts.Exporter,
		extractor:     opts.Extractor,
		importTimeout: opts.ImportTimeout,
		fontsURL:      opts.FontsURL,
		logger:        logger,
	}
}

// routes returns the editor HTTP handler.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.handleEditor)

	r.Route("/api", func(r chi.Router) {
		r.Post("/fields/{ref}", s.handleCommitField)
		r.Post("/rows", s.handleAddRow)
		r.Delete("/rows/{id}", s.handleDeleteRow)
		r.Post("/import", s.handleImport)
	})

	r.Get("/customize", s.handleCustomize)
	r.Post("/customize/save", s.handleCustomizeSave)
	r.Post("/customize/cancel", s.handleCustomizeCancel)
	r.Post("/customize/reset", s.handleCustomizeReset)

	r.Get("/print", s.handlePrintPreview)
	r.Get("/print/frame", s.handlePrintFrame)
	r.Get("/download/{format}", s.handleDownload)

	return r
}

// logRequests logs one line per request at debug level.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// ---------------------------------------------------------------------------
// Editor page and field commits
// ---------------------------------------------------------------------------

func (s *server) handleEditor(w http.ResponseWriter, _ *http.Request) {
	page, err := s.renderer.RenderPageString(s.editor.Document(), cargolist.PageOptions{
		Mode:     cargolist.ModeEditable,
		FontsURL: s.fontsURL,
		Chrome:   true,
		Busy:     s.editor.Importing(),
		Alert:    s.takeAlert(),
	})
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "rendering editor", err)
		return
	}
	writeHTML(w, http.StatusOK, page)
}

type fieldRequest struct {
	Value string `json:"value"`
}

type fieldResponse struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Changed bool   `json:"changed"`
}

func (s *server) handleCommitField(w http.ResponseWriter, r *http.Request) {
	ref, err := cargolist.ParseFieldRef(chi.URLParam(r, "ref"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var req fieldRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	changed, err := s.editor.Commit(ref, req.Value)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	value, _ := s.editor.Document().Value(ref)
	writeJSON(w, http.StatusOK, fieldResponse{Field: ref.String(), Value: value, Changed: changed})
}

// ---------------------------------------------------------------------------
// Rows and import
// ---------------------------------------------------------------------------

func (s *server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	row, err := s.editor.AddRow()
	if err != nil {
		if wantsJSON(r) {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		s.setAlert(busyAlert)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, row)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "row id must be an integer", http.StatusBadRequest)
		return
	}
	if err := s.editor.DeleteRow(id); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Rows int `json:"rows"`
}

func (s *server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading upload failed", http.StatusBadRequest)
		return
	}
	mimeType, err := fileutil.ImageMIMEType(header.Filename, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	// The import outlives a closed tab; only the timeout bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.importTimeout)
	defer cancel()

	ex, err := s.extractor(ctx)
	if err != nil {
		s.logger.Error("extraction client unavailable", slog.Any("error", err))
		http.Error(w, importAlert, http.StatusServiceUnavailable)
		return
	}

	n, err := s.editor.ImportImage(ctx, ex, cargolist.Image{Data: data, MIMEType: mimeType})
	if err != nil {
		if errors.Is(err, cargolist.ErrImportInProgress) {
			http.Error(w, busyAlert, http.StatusConflict)
			return
		}
		s.logger.Error("image import failed", slog.Any("error", err))
		http.Error(w, importAlert, http.StatusBadGateway)
		return
	}
	s.logger.Info("image imported", slog.Int("rows", n), slog.String("file", header.Filename))
	writeJSON(w, http.StatusOK, importResponse{Rows: n})
}

// ---------------------------------------------------------------------------
// Customization panel
// ---------------------------------------------------------------------------

// currentPanel returns the open panel, opening a fresh one when none is.
// Callers hold s.mu.
func (s *server) currentPanel() *cargolist.Panel {
	if s.panel == nil || s.panel.State() == cargolist.PanelClosed {
		s.panel = cargolist.OpenPanel(s.editor)
	}
	return s.panel
}

func (s *server) handleCustomize(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	// Reopening shows the committed values again.
	s.panel = cargolist.OpenPanel(s.editor)
	work := s.panel.Working()
	s.mu.Unlock()

	s.renderCustomize(w, http.StatusOK, work, "")
}

func (s *server) handleCustomizeSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	p := s.currentPanel()
	err := p.SetAll(cargolist.CustomizationFromForm(p.Working(), r.PostForm))
	if err == nil {
		err = p.Save()
	}
	s.panel = nil
	s.mu.Unlock()

	if err != nil {
		s.fail(w, http.StatusConflict, "saving customization", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleCustomizeCancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.panel != nil && s.panel.State() != cargolist.PanelClosed {
		_ = s.panel.Cancel()
	}
	s.panel = nil
	s.mu.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleCustomizeReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	confirmed := r.PostForm.Get("confirm") == "yes"

	s.mu.Lock()
	p := s.currentPanel()
	err := p.Reset(confirmed)
	work := p.Working()
	if err == nil {
		s.panel = nil
	}
	s.mu.Unlock()

	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, cargolist.ErrResetNotConfirmed):
		s.renderCustomize(w, http.StatusBadRequest, work, "Reset was not confirmed.")
	default:
		s.renderCustomize(w, statusFor(err), work, err.Error())
	}
}

func (s *server) renderCustomize(w http.ResponseWriter, status int, c cargolist.Customization, msg string) {
	var buf bytes.Buffer
	if err := s.renderer.RenderCustomize(&buf, c, msg); err != nil {
		s.fail(w, http.StatusInternalServerError, "rendering customization", err)
		return
	}
	writeHTML(w, status, buf.String())
}

// ---------------------------------------------------------------------------
// Print and download
// ---------------------------------------------------------------------------

func (s *server) handlePrintPreview(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.RenderPreview(&buf); err != nil {
		s.fail(w, http.StatusInternalServerError, "rendering print preview", err)
		return
	}
	writeHTML(w, http.StatusOK, buf.String())
}

func (s *server) handlePrintFrame(w http.ResponseWriter, r *http.Request) {
	page, err := s.exporter.PrintSurface(r.Context(), s.editor.Document())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "rendering print surface", err)
		return
	}
	writeHTML(w, http.StatusOK, page)
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format, err := cargolist.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	art, err := s.exporter.Export(r.Context(), s.editor.Document(), format)
	if err != nil {
		s.logger.Error("export failed", slog.String("format", string(format)), slog.Any("error", err))
		http.Error(w, fmt.Sprintf(exportAlertFmt, formatLabel(format)), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *server) setAlert(msg string) {
	s.mu.Lock()
	s.alert = msg
	s.mu.Unlock()
}

// takeAlert returns the pending alert and clears it.
func (s *server) takeAlert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.alert
	s.alert = ""
	return msg
}

func (s *server) fail(w http.ResponseWriter, status int, what string, err error) {
	s.logger.Error(what, slog.Any("error", err))
	http.Error(w, what+" failed", status)
}

// statusFor maps editor errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cargolist.ErrUnknownField), errors.Is(err, cargolist.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, cargolist.ErrImportInProgress):
		return http.StatusConflict
	case errors.Is(err, cargolist.ErrPanelClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func formatLabel(f cargolist.Format) string {
	switch f {
	case cargolist.FormatPDF:
		return "PDF"
	case cargolist.FormatPNG:
		return "image"
	default:
		return "HTML"
	}
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}

func writeHTML(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
