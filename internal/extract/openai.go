package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultOpenAIModel is the OpenAI model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI extracts items with the OpenAI Chat Completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI extractor. baseURL and httpClient are optional.
func NewOpenAI(apiKey, model, baseURL string, httpClient *http.Client) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai", ErrMissingAPIKey)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

// Extract sends the image as a data URL with the prompt and parses the reply.
func (o *OpenAI) Extract(ctx context.Context, img Image) ([]Item, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	dataURL := "data:" + mimeTypeOrDefault(img) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
				openai.TextContentPart(Prompt),
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", ErrRequest, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseItems(resp.Choices[0].Message.Content)
}

// Compile-time interface check.
var _ Extractor = (*OpenAI)(nil)
