// Package extract turns a photographed cargo list into item records through
// a multimodal model.
//
// Every provider sends the same instruction (Prompt) and expects the same
// reply shape: a raw JSON array of objects with the string fields serial,
// description, quantity and remarks. ParseItems enforces that shape.
package extract

import (
	"context"
	"errors"
)

// Sentinel errors for extraction.
var (
	ErrEmptyImage        = errors.New("image data cannot be empty")
	ErrEmptyResponse     = errors.New("extraction service returned no text")
	ErrMalformedResponse = errors.New("extraction response is not valid item JSON")
	ErrNotArray          = errors.New("extraction response is not an array")
	ErrMissingAPIKey     = errors.New("extraction API key is not set")
	ErrUnknownProvider   = errors.New("unknown extraction provider")
	ErrRequest           = errors.New("extraction request failed")
)

// Prompt is the fixed instruction sent with every image.
const Prompt = "You are an expert data entry assistant for cargo manifests. " +
	"Analyze the provided image of a cargo list, which may contain text in English or Bengali. " +
	"For each item on the list, extract the serial number, item description, quantity, and any remarks. " +
	"Return the data as a valid JSON array of objects. " +
	"Each object must have four string keys: 'serial', 'description', 'quantity', and 'remarks'. " +
	"If a value is missing for any field, use an empty string. " +
	"Ensure the extracted text preserves the original language (e.g., Bengali script). " +
	"Only return the raw JSON array, without any surrounding text or markdown formatting."

// Item field names, in schema order.
const (
	FieldSerial      = "serial"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldRemarks     = "remarks"
)

// ItemFields lists the required string fields of an item.
var ItemFields = []string{FieldSerial, FieldDescription, FieldQuantity, FieldRemarks}

// Image is one uploaded picture.
type Image struct {
	Data     []byte
	MIMEType string // e.g. image/jpeg
}

// Item is one extracted line. Absent fields are empty strings.
type Item struct {
	Serial      string `json:"serial"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Remarks     string `json:"remarks"`
}

// Extractor reads cargo items from an image.
// Implementations do not retry; a failure is terminal for that call.
type Extractor interface {
	Extract(ctx context.Context, img Image) ([]Item, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, img Image) ([]Item, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, img Image) ([]Item, error) {
	return f(ctx, img)
}

// mimeTypeOrDefault returns the image MIME type, or image/jpeg when unset.
func mimeTypeOrDefault(img Image) string {
	if img.MIMEType == "" {
		return "image/jpeg"
	}
	return img.MIMEType
}
