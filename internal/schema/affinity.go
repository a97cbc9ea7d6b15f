package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Coerce converts a decoded JSON value to the value bound for the column,
// following the column's storage affinity. Values an int column cannot hold
// are kept as text; it is up to the backend whether it accepts them.
func Coerce(col Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch col.Type {
	case TypeInt:
		return coerceInt(v)
	case TypeText:
		return coerceText(v)
	}
	return nil, fmt.Errorf("%s column %s is not writable", col.Type, col.Name)
}

func coerceInt(v any) (any, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		if f, err := t.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
		return t.String(), nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
		return t, nil
	}
	return coerceText(v)
}

func coerceText(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return string(b), nil
}
