package repository

import "errors"

var (
	// ErrPersistence marks an insert or read the store rejected
	ErrPersistence = errors.New("persistence error")

	// ErrStoreUnavailable marks a store that could not be opened or reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownColumn marks a predicate or ordering naming a column outside the schema
	ErrUnknownColumn = errors.New("unknown column")
)
