package repository

import (
	"context"

	"github.com/Wendyzhou/eventkit/internal/domain"
)

// OrderBy sorts query results by one column; ties are broken by uid in the same direction
type OrderBy struct {
	Column string
	Desc   bool
}

// Query describes a filtered, ordered and limited read of the events table
type Query struct {
	Where   Predicate
	OrderBy *OrderBy
	// Limit of zero means no limit
	Limit int
}

// EventRepository defines the interface for event storage operations
type EventRepository interface {
	// Insert stores one mapped row and returns the uid assigned to it
	Insert(ctx context.Context, row domain.Row) (int64, error)

	// Query returns the rows matching the query, uid included
	Query(ctx context.Context, q Query) ([]domain.Row, error)

	// Count returns the number of rows matching the predicate
	Count(ctx context.Context, where Predicate) (int64, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
