package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is the Claude model used when none is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// anthropicMaxTokens bounds the reply; a full page of items fits well below.
const anthropicMaxTokens = 8192

// Anthropic extracts items with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic extractor. baseURL and httpClient are
// optional.
func NewAnthropic(apiKey, model, baseURL string, httpClient *http.Client) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic", ErrMissingAPIKey)
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Anthropic{client: anthropic.NewClient(opts...), model: model}, nil
}

// Extract sends the image and the prompt and parses the text reply.
func (a *Anthropic) Extract(ctx context.Context, img Image) ([]Item, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mimeTypeOrDefault(img), base64.StdEncoding.EncodeToString(img.Data)),
				anthropic.NewTextBlock(Prompt),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic: %v", ErrRequest, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return ParseItems(text.String())
}

// Compile-time interface check.
var _ Extractor = (*Anthropic)(nil)
