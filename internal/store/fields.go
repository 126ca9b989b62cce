package store

import (
	"encoding/json"
	"fmt"
)

// CanonicalFields converts custom field values to the types they reload as from the
// state file (float64, string, bool, nil, []any, map[string]any). The result shares
// nothing with in.
func CanonicalFields(in map[string]any) (map[string]any, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("custom fields: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("custom fields: %w", err)
	}
	return out, nil
}

// CloneFields deep-copies canonical custom fields.
func CloneFields(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneFieldValue(v)
	}
	return out
}

func cloneFieldValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneFields(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneFieldValue(e)
		}
		return out
	default:
		return v
	}
}
