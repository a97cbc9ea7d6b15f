// Package decode re-expands JSON text stored in result rows into structured values.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/Wendyzhou/eventkit/internal/domain"
)

// Value walks v and replaces every string holding a JSON document with the
// decoded document. A decoded document is returned as parsed; strings
// inside it are not decoded a second time.
func Value(v any) any {
	switch t := v.(type) {
	case string:
		if parsed, ok := parse(t); ok {
			return parsed
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Value(item)
		}
		return out
	case domain.Row:
		return Value(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Value(item)
		}
		return out
	}
	return v
}

// Rows decodes every column of every row
func Rows(rows []domain.Row) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		out[i] = Value(map[string]any(row)).(map[string]any)
	}
	return out
}

func parse(s string) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// trailing data means s was not a single document
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return v, true
}
