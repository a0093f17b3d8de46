package extract

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini extracts items with the Gemini API, constraining the reply with a
// response schema.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini extractor. baseURL and httpClient are optional.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini", ErrMissingAPIKey)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", ErrRequest, err)
	}
	return &Gemini{client: client, model: model}, nil
}

// geminiSchema declares the reply shape: an array of objects with four
// required string fields.
func geminiSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(ItemFields))
	for _, f := range ItemFields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         ItemFields,
			PropertyOrdering: ItemFields,
		},
	}
}

// Extract sends the image and the prompt and parses the JSON reply.
func (g *Gemini) Extract(ctx context.Context, img Image) ([]Item, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, mimeTypeOrDefault(img)),
			genai.NewPartFromText(Prompt),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", ErrRequest, err)
	}
	return ParseItems(resp.Text())
}

// Compile-time interface check.
var _ Extractor = (*Gemini)(nil)
