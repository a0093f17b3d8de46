package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Provider names a supported extraction backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// DefaultTimeout bounds one extraction call.
const DefaultTimeout = 2 * time.Minute

// Options selects and configures a provider.
type Options struct {
	Provider   Provider // gemini when empty
	Model      string   // provider default when empty
	APIKey     string   // read from APIKeyEnv when empty
	APIKeyEnv  string   // provider default variable when empty
	BaseURL    string
	HTTPClient *http.Client
}

// DefaultAPIKeyEnv returns the environment variable holding the API key of p.
func DefaultAPIKeyEnv(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// DefaultModel returns the model used by p when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultGeminiModel
	}
}

// Valid reports whether p names a supported provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
		return true
	}
	return false
}

// New returns the extractor selected by opts.
func New(ctx context.Context, opts Options) (Extractor, error) {
	p := opts.Provider
	if p == "" {
		p = ProviderGemini
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}

	key := opts.APIKey
	if key == "" {
		env := opts.APIKeyEnv
		if env == "" {
			env = DefaultAPIKeyEnv(p)
		}
		key = os.Getenv(env)
	}

	switch p {
	case ProviderAnthropic:
		return NewAnthropic(key, opts.Model, opts.BaseURL, opts.HTTPClient)
	case ProviderOpenAI:
		return NewOpenAI(key, opts.Model, opts.BaseURL, opts.HTTPClient)
	default:
		return NewGemini(ctx, key, opts.Model, opts.BaseURL, opts.HTTPClient)
	}
}
