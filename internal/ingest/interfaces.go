package ingest

import (
	"context"

	"github.com/Wendyzhou/eventkit/internal/domain"
)

// Writer persists or forwards one mapped row
type Writer interface {
	Write(ctx context.Context, batchID string, row domain.Row) error
}

// RowMapper maps one notification into a row
type RowMapper interface {
	Map(n domain.Notification) (domain.Row, error)
}
