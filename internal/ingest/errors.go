package ingest

import "errors"

var (
	// ErrParse is returned when the request body is not valid JSON
	ErrParse = errors.New("body is not valid JSON")

	// ErrShape is returned when the body is not a JSON array of objects
	ErrShape = errors.New("body must be a JSON array of objects")
)
