// Package mapper turns webhook notifications into rows of the events table.
package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// ErrMissingField is returned for notifications without an "event" key
var ErrMissingField = errors.New("notification is missing the event field")

// serverColumns are filled by the mapper or the store, never from client input.
// Client keys that normalize to one of them are kept in additional_arguments.
var serverColumns = map[string]bool{
	schema.ColAdditionalArguments: true,
	schema.ColEventPostTimestamp:  true,
	schema.ColRaw:                 true,
	schema.ColUID:                 true,
}

// Mapper maps notifications onto the column schema
type Mapper struct {
	now func() time.Time
}

// Option configures a Mapper
type Option func(*Mapper)

// WithClock overrides the clock used for event_post_timestamp
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		m.now = now
	}
}

// New creates a new mapper
func New(opts ...Option) *Mapper {
	m := &Mapper{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map converts one notification into a row ready for insertion (without uid)
func (m *Mapper) Map(n domain.Notification) (domain.Row, error) {
	if _, ok := n.Fields[schema.ColEvent]; !ok {
		return nil, ErrMissingField
	}

	row := domain.Row{
		schema.ColEventPostTimestamp: m.now().Unix(),
	}

	raw, err := compact(n)
	if err != nil {
		return nil, err
	}
	row[schema.ColRaw] = raw

	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	additional := make(map[string]any)
	for _, key := range keys {
		value := n.Fields[key]
		name := schema.Normalize(key)

		col, known := schema.Lookup(name)
		switch {
		case !known || serverColumns[name]:
			additional[name] = value
		case name == schema.ColCategory || name == schema.ColNewsletter:
			encoded, err := encodeJSON(value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", name, err)
			}
			row[name] = encoded
		default:
			v, err := schema.Coerce(col, value)
			if err != nil {
				return nil, fmt.Errorf("failed to map %s: %w", name, err)
			}
			row[name] = v
		}
	}

	if len(additional) > 0 {
		encoded, err := encodeJSON(additional)
		if err != nil {
			return nil, fmt.Errorf("failed to encode additional arguments: %w", err)
		}
		row[schema.ColAdditionalArguments] = encoded
	}

	return row, nil
}

func compact(n domain.Notification) (string, error) {
	if len(n.Raw) == 0 {
		encoded, err := encodeJSON(n.Fields)
		if err != nil {
			return "", fmt.Errorf("failed to encode raw notification: %w", err)
		}
		return encoded, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, n.Raw); err != nil {
		return "", fmt.Errorf("failed to compact raw notification: %w", err)
	}
	return buf.String(), nil
}

// encodeJSON marshals without HTML escaping so stored text matches the input
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
