package query

import (
	"net/url"
	"strings"
)

// Value is one parameter: a scalar or a list
type Value struct {
	Items []string
	List  bool
}

// Params is the parameter map of one query
type Params map[string]Value

// FromValues builds Params from a decoded query string. A key written as
// "name[]" or repeated more than once becomes a list under "name".
func FromValues(values url.Values) Params {
	p := make(Params, len(values))
	for key, items := range values {
		name, bracketed := strings.CutSuffix(key, "[]")
		v := p[name]
		v.Items = append(v.Items, items...)
		v.List = v.List || bracketed || len(v.Items) > 1
		p[name] = v
	}
	return p
}

// Scalar returns a parameter constructed from a single value
func Scalar(s string) Value {
	return Value{Items: []string{s}}
}

// List returns a list parameter
func List(items ...string) Value {
	return Value{Items: items, List: true}
}

// Get returns the first value of a parameter
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	if !ok || len(v.Items) == 0 {
		return "", false
	}
	return v.Items[0], true
}

// WantsCSV reports whether the caller asked for CSV output
func (p Params) WantsCSV() bool {
	v, ok := p.Get(ParamCSV)
	return ok && (v == "1" || v == "true")
}
