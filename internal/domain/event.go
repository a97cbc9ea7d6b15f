package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Wendyzhou/eventkit/internal/schema"
)

// Notification is one webhook event item of an ingested batch
type Notification struct {
	// Fields holds the decoded object, numbers kept as json.Number
	Fields map[string]any
	// Raw is the compacted original encoding of the object
	Raw json.RawMessage
}

// Row is one record of the events table keyed by column name
type Row map[string]any

// UID returns the store-assigned identity of a row read back from the store
func (r Row) UID() (int64, bool) {
	return toInt64(r[schema.ColUID])
}

// String reads a text column of the row
func (r Row) String(col string) (string, bool) {
	switch v := r[col].(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Validate checks that the row only carries writable schema columns
func (r Row) Validate() error {
	for k := range r {
		c, ok := schema.Lookup(k)
		if !ok {
			return fmt.Errorf("unknown column %q", k)
		}
		if c.Type == schema.TypeIdentity {
			return fmt.Errorf("column %q is assigned by the store", k)
		}
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}
