package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_IntColumn(t *testing.T) {
	col, _ := Lookup(ColTimestamp)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"json integer", json.Number("1690000000"), int64(1690000000)},
		{"json integral float", json.Number("1690000000.0"), int64(1690000000)},
		{"json fraction", json.Number("1.5"), "1.5"},
		{"numeric string", "42", int64(42)},
		{"text string", "yesterday", "yesterday"},
		{"float64", float64(7), int64(7)},
		{"bool", true, "true"},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(col, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_TextColumn(t *testing.T) {
	col, _ := Lookup("attempt")

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"string", "5", "5"},
		{"json number", json.Number("5"), "5"},
		{"bool", false, "false"},
		{"object", map[string]any{"a": json.Number("1")}, `{"a":1}`},
		{"array", []any{"x", "y"}, `["x","y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(col, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_IdentityRejected(t *testing.T) {
	col, _ := Lookup(ColUID)

	_, err := Coerce(col, json.Number("1"))
	require.Error(t, err)
	assert.Equal(t, "identity column uid is not writable", err.Error())
}
