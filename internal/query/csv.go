package query

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Wendyzhou/eventkit/internal/schema"
)

// WriteCSV renders the stored rows of r with one column per schema column,
// in schema order. Values are written as stored, without decoding.
func (r Result) WriteCSV(w io.Writer) error {
	names := schema.Names()

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(names))
	for _, row := range r.Rows {
		for i, name := range names {
			record[i] = cell(row[name])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	}
	return fmt.Sprint(v)
}
