package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const itemsJSON = `[{"serial":"1","description":"Blanket","quantity":"1","remarks":""},{"serial":"","description":"Dates","quantity":"3 kg","remarks":"fresh"}]`

var wantItems = []Item{
	{Serial: "1", Description: "Blanket", Quantity: "1"},
	{Description: "Dates", Quantity: "3 kg", Remarks: "fresh"},
}

var testImage = Image{Data: []byte{0xff, 0xd8, 0xff, 0xe0}, MIMEType: "image/jpeg"}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		env     map[string]string
		wantErr error
		wantT   string
	}{
		{name: "default is gemini", opts: Options{APIKey: "k"}, wantT: "*extract.Gemini"},
		{name: "anthropic", opts: Options{Provider: ProviderAnthropic, APIKey: "k"}, wantT: "*extract.Anthropic"},
		{name: "openai", opts: Options{Provider: ProviderOpenAI, APIKey: "k"}, wantT: "*extract.OpenAI"},
		{
			name:  "key from custom env",
			opts:  Options{Provider: ProviderOpenAI, APIKeyEnv: "CARGOLIST_TEST_KEY"},
			env:   map[string]string{"CARGOLIST_TEST_KEY": "k"},
			wantT: "*extract.OpenAI",
		},
		{
			name:    "missing key",
			opts:    Options{Provider: ProviderAnthropic},
			env:     map[string]string{"ANTHROPIC_API_KEY": ""},
			wantErr: ErrMissingAPIKey,
		},
		{name: "unknown provider", opts: Options{Provider: "mistral", APIKey: "k"}, wantErr: ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := New(context.Background(), tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if gotT := typeName(got); gotT != tt.wantT {
				t.Errorf("New() type = %s, want %s", gotT, tt.wantT)
			}
		})
	}
}

func typeName(e Extractor) string {
	switch e.(type) {
	case *Gemini:
		return "*extract.Gemini"
	case *Anthropic:
		return "*extract.Anthropic"
	case *OpenAI:
		return "*extract.OpenAI"
	}
	return "unknown"
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	if DefaultModel(ProviderGemini) != "gemini-2.5-flash" {
		t.Errorf("DefaultModel(gemini) = %q", DefaultModel(ProviderGemini))
	}
	if DefaultAPIKeyEnv(ProviderAnthropic) != "ANTHROPIC_API_KEY" {
		t.Errorf("DefaultAPIKeyEnv(anthropic) = %q", DefaultAPIKeyEnv(ProviderAnthropic))
	}
}

// fakeAPI serves one canned JSON reply and records the request body.
func fakeAPI(t *testing.T, status int, reply string) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body.Store(string(b))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &body
}

func jsonString(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestAnthropic_Extract(t *testing.T) {
	t.Parallel()

	reply := `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",` +
		`"content":[{"type":"text","text":` + jsonString(t, itemsJSON) + `}],` +
		`"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":20}}`
	srv, body := fakeAPI(t, http.StatusOK, reply)

	a, err := NewAnthropic("k", "", srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	got, err := a.Extract(context.Background(), testImage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	assertItems(t, got)

	sent, _ := body.Load().(string)
	if !strings.Contains(sent, `"base64"`) || !strings.Contains(sent, "cargo manifests") {
		t.Errorf("request should carry the image and the prompt, got %s", sent)
	}
}

func TestOpenAI_Extract(t *testing.T) {
	t.Parallel()

	reply := `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + jsonString(t, itemsJSON) + `}}]}`
	srv, body := fakeAPI(t, http.StatusOK, reply)

	o, err := NewOpenAI("k", "", srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	got, err := o.Extract(context.Background(), testImage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	assertItems(t, got)

	sent, _ := body.Load().(string)
	if !strings.Contains(sent, "data:image/jpeg;base64,") {
		t.Errorf("request should carry a data URL, got %s", sent)
	}
}

func TestGemini_Extract(t *testing.T) {
	t.Parallel()

	reply := `{"candidates":[{"content":{"role":"model","parts":[{"text":` + jsonString(t, itemsJSON) + `}]}}]}`
	srv, body := fakeAPI(t, http.StatusOK, reply)

	g, err := NewGemini(context.Background(), "k", "", srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Extract(context.Background(), testImage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	assertItems(t, got)

	sent, _ := body.Load().(string)
	if !strings.Contains(sent, "application/json") {
		t.Errorf("request should ask for a JSON reply, got %s", sent)
	}
}

func TestExtract_ServiceFailure(t *testing.T) {
	t.Parallel()

	srv, _ := fakeAPI(t, http.StatusInternalServerError, `{"error":{"type":"api_error","message":"boom"}}`)

	a, err := NewAnthropic("k", "", srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Extract(context.Background(), testImage); !errors.Is(err, ErrRequest) {
		t.Errorf("Extract() error = %v, want ErrRequest", err)
	}
}

func TestExtract_NonArrayReply(t *testing.T) {
	t.Parallel()

	reply := `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"m",` +
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"items\":[]}"}}]}`
	srv, _ := fakeAPI(t, http.StatusOK, reply)

	o, err := NewOpenAI("k", "", srv.URL, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Extract(context.Background(), testImage); !errors.Is(err, ErrNotArray) {
		t.Errorf("Extract() error = %v, want ErrNotArray", err)
	}
}

func TestExtract_EmptyImage(t *testing.T) {
	t.Parallel()

	o, err := NewOpenAI("k", "", "http://127.0.0.1:1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Extract(context.Background(), Image{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Extract() error = %v, want ErrEmptyImage", err)
	}
}

func assertItems(t *testing.T, got []Item) {
	t.Helper()
	if len(got) != len(wantItems) {
		t.Fatalf("got %d items, want %d", len(got), len(wantItems))
	}
	for i := range got {
		if got[i] != wantItems[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], wantItems[i])
		}
	}
}
