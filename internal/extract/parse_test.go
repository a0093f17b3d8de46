package extract

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []Item
		wantErr error
	}{
		{
			name:  "complete items",
			input: `[{"serial":"১","description":"কম্বল","quantity":"১ পিছ","remarks":""}]`,
			want:  []Item{{Serial: "১", Description: "কম্বল", Quantity: "১ পিছ"}},
		},
		{
			name:  "missing and null fields become empty",
			input: `[{"description":"Sugar"},{"serial":null,"description":"Tea","remarks":"box"}]`,
			want:  []Item{{Description: "Sugar"}, {Description: "Tea", Remarks: "box"}},
		},
		{
			name:  "unknown keys ignored and whitespace trimmed",
			input: "\n  [{\"serial\":\"3\",\"price\":4}]  \n",
			want:  []Item{{Serial: "3"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []Item{},
		},
		{name: "empty text", input: "   ", wantErr: ErrEmptyResponse},
		{name: "object instead of array", input: `{"items":[]}`, wantErr: ErrNotArray},
		{name: "string instead of array", input: `"nothing found"`, wantErr: ErrNotArray},
		{name: "markdown fence", input: "```json\n[]\n```", wantErr: ErrMalformedResponse},
		{name: "truncated json", input: `[{"serial":"1"`, wantErr: ErrMalformedResponse},
		{name: "element not an object", input: `["1","2"]`, wantErr: ErrMalformedResponse},
		{name: "numeric field", input: `[{"serial":1}]`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseItems(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseItems() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseItems() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseItems() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPrompt_NamesEveryField(t *testing.T) {
	t.Parallel()

	for _, f := range ItemFields {
		if !strings.Contains(Prompt, "'"+f+"'") {
			t.Errorf("Prompt should name field %q", f)
		}
	}
}
