package cargolist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultFontsURL is the stylesheet declaring every font in FontOptions.
const DefaultFontsURL = "https://fonts.googleapis.com/css2?family=Hind+Siliguri:wght@400;500;600;700" +
	"&family=Lato:wght@400;700&family=Noto+Sans+Bengali:wght@400;700" +
	"&family=Noto+Serif+Bengali:wght@400;700&family=Roboto:wght@400;700&display=swap"

// maxFontCSSSize bounds the fetched stylesheet.
const maxFontCSSSize = 2 << 20

// defaultFontFetchTimeout bounds one stylesheet fetch.
const defaultFontFetchTimeout = 15 * time.Second

// fontSource returns the font stylesheet embedded into one export.
type fontSource interface {
	FontCSS(ctx context.Context) string
}

// httpFontSource fetches the stylesheet over HTTP on every call.
type httpFontSource struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// FontCSS returns the stylesheet text, or "" when the fetch fails.
func (s *httpFontSource) FontCSS(ctx context.Context) string {
	if s.url == "" {
		return ""
	}
	css, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("font stylesheet unavailable, exporting with fallback fonts", "url", s.url, "error", err)
		return ""
	}
	return css
}

func (s *httpFontSource) fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultFontFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}
	// Google Fonts serves woff2 declarations to modern user agents only.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFontCSSSize))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}
