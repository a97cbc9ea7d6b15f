package service

import (
	"context"

	"github.com/Wendyzhou/eventkit/internal/ingest"
	"github.com/Wendyzhou/eventkit/internal/query"
)

// EventServicer defines the interface for event service operations
type EventServicer interface {
	IngestBatch(ctx context.Context, body []byte) (ingest.Outcome, error)
	Search(ctx context.Context, params query.Params) query.Result
	Health(ctx context.Context) error
}

// BatchProcessor maps and writes one notification batch
type BatchProcessor interface {
	Process(ctx context.Context, body []byte) (ingest.Outcome, error)
}

// QueryRunner executes one search
type QueryRunner interface {
	Run(ctx context.Context, params query.Params) query.Result
}

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}
