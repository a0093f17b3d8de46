package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseItems decodes a model reply. The text must be a raw JSON array of
// objects; each present item field must be a string or null. Missing and
// null fields become "". Unknown keys are ignored.
func ParseItems(text string) ([]Item, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	elems, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, jsonKind(raw))
	}

	items := make([]Item, 0, len(elems))
	for i, elem := range elems {
		obj, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s, not an object", ErrMalformedResponse, i, jsonKind(elem))
		}
		var item Item
		for _, field := range ItemFields {
			v, err := stringField(obj, field)
			if err != nil {
				return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedResponse, i, err)
			}
			switch field {
			case FieldSerial:
				item.Serial = v
			case FieldDescription:
				item.Description = v
			case FieldQuantity:
				item.Quantity = v
			case FieldRemarks:
				item.Remarks = v
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is %s, not a string", key, jsonKind(v))
	}
	return s, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	}
	return fmt.Sprintf("%T", v)
}
