// Package schema holds the fixed column layout of the events table.
package schema

import "strings"

// Type is the storage affinity of a column
type Type int

const (
	TypeInt Type = iota
	TypeText
	TypeIdentity
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeText:
		return "text"
	case TypeIdentity:
		return "identity"
	}
	return "unknown"
}

// Column is a single (name, type) pair of the events table
type Column struct {
	Name string
	Type Type
	// JSON marks text columns that always hold JSON-encoded values
	JSON bool
}

// Column names referenced directly by the mapper and the query translator
const (
	ColTimestamp           = "timestamp"
	ColEvent               = "event"
	ColEmail               = "email"
	ColCategory            = "category"
	ColNewsletter          = "newsletter"
	ColAdditionalArguments = "additional_arguments"
	ColEventPostTimestamp  = "event_post_timestamp"
	ColRaw                 = "raw"
	ColUID                 = "uid"
)

// Table is the name of the single events table
const Table = "events"

var columns = []Column{
	{Name: ColTimestamp, Type: TypeInt},
	{Name: ColEvent, Type: TypeText},
	{Name: ColEmail, Type: TypeText},
	{Name: "smtpid", Type: TypeText},
	{Name: "sg_event_id", Type: TypeText},
	{Name: "sg_message_id", Type: TypeText},
	{Name: ColCategory, Type: TypeText, JSON: true},
	{Name: ColNewsletter, Type: TypeText, JSON: true},
	{Name: "response", Type: TypeText},
	{Name: "reason", Type: TypeText},
	{Name: "ip", Type: TypeText},
	{Name: "useragent", Type: TypeText},
	{Name: "attempt", Type: TypeText},
	{Name: "status", Type: TypeText},
	{Name: "type", Type: TypeText},
	{Name: "url", Type: TypeText},
	{Name: ColAdditionalArguments, Type: TypeText, JSON: true},
	{Name: ColEventPostTimestamp, Type: TypeInt},
	{Name: ColRaw, Type: TypeText, JSON: true},
	{Name: ColUID, Type: TypeIdentity},
}

var index = func() map[string]Column {
	m := make(map[string]Column, len(columns))
	for _, c := range columns {
		m[c.Name] = c
	}
	return m
}()

// Columns returns the ordered column list, uid included
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// InsertColumns returns the ordered column list without the identity column
func InsertColumns() []Column {
	out := make([]Column, 0, len(columns)-1)
	for _, c := range columns {
		if c.Type != TypeIdentity {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the ordered column names, uid included
func Names() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Name
	}
	return out
}

// Normalize strips every hyphen from an incoming field name
func Normalize(name string) string {
	return strings.ReplaceAll(name, "-", "")
}

// Lookup returns the column for an already normalized name
func Lookup(name string) (Column, bool) {
	c, ok := index[name]
	return c, ok
}

// IsKnownField reports whether the normalized name is a column of the table
func IsKnownField(name string) bool {
	_, ok := index[Normalize(name)]
	return ok
}
