package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/queue"
	"github.com/Wendyzhou/eventkit/internal/repository"
)

// StoreWriter inserts rows directly into the event repository
type StoreWriter struct {
	repo repository.EventRepository
	log  *zap.Logger
}

// NewStoreWriter creates a writer for direct ingestion
func NewStoreWriter(repo repository.EventRepository, log *zap.Logger) *StoreWriter {
	return &StoreWriter{repo: repo, log: log}
}

// Write inserts the row
func (w *StoreWriter) Write(ctx context.Context, batchID string, row domain.Row) error {
	uid, err := w.repo.Insert(ctx, row)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	w.log.Debug("Event stored", zap.String("batch_id", batchID), zap.Int64("uid", uid))
	return nil
}

// QueueWriter publishes rows for the consumer to insert later
type QueueWriter struct {
	publisher queue.RowPublisher
}

// NewQueueWriter creates a writer for queued ingestion
func NewQueueWriter(publisher queue.RowPublisher) *QueueWriter {
	return &QueueWriter{publisher: publisher}
}

// Write publishes the row
func (w *QueueWriter) Write(ctx context.Context, batchID string, row domain.Row) error {
	if err := w.publisher.PublishRow(ctx, row, batchID); err != nil {
		return fmt.Errorf("%w: failed to publish event to queue: %v", repository.ErrPersistence, err)
	}
	return nil
}
