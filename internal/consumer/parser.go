package consumer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// JSONRowParser implements MessageParser for rows published as JSON objects
type JSONRowParser struct{}

// NewJSONRowParser creates a new JSON row parser
func NewJSONRowParser() *JSONRowParser {
	return &JSONRowParser{}
}

// Parse decodes the body and restores each value to its column's affinity
func (p *JSONRowParser) Parse(body []byte) (domain.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("message body is not an object")
	}

	row := make(domain.Row, len(fields))
	for name, value := range fields {
		col, ok := schema.Lookup(name)
		if !ok || col.Type == schema.TypeIdentity {
			return nil, fmt.Errorf("unexpected column %q in message", name)
		}

		v, err := schema.Coerce(col, value)
		if err != nil {
			return nil, fmt.Errorf("failed to restore column %s: %w", name, err)
		}
		row[name] = v
	}

	if _, ok := row[schema.ColEvent]; !ok {
		return nil, fmt.Errorf("message has no %s column", schema.ColEvent)
	}

	return row, nil
}
