package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/metrics"
	"github.com/Wendyzhou/eventkit/internal/repository"
)

// Consumer message results
const (
	resultAcked  = "acked"
	resultNacked = "nacked"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// BatchWriter collects envelopes and writes them to the repository in
// flushes. Each row is its own insert and is acked or nacked on its own.
type BatchWriter struct {
	repository repository.EventRepository
	config     BatchWriterConfig
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(repo repository.EventRepository, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		repository: repo,
		config:     config,
		log:        log,
	}
}

// Start begins collecting envelopes and flushing them to the repository
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			if len(batch) > 0 {
				// ctx is done; the final flush runs on a fresh context
				w.flush(context.WithoutCancel(ctx), batch)
			}
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				if len(batch) > 0 {
					w.flush(ctx, batch)
				}
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.flush(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// flush inserts every row, acking successes and nacking failures
func (w *BatchWriter) flush(ctx context.Context, envelopes []*Envelope) {
	stored := 0
	for _, env := range envelopes {
		uid, err := w.repository.Insert(ctx, env.Row)
		if err != nil {
			w.log.Error("Failed to insert queued row",
				zap.String("batch_id", env.BatchID),
				zap.Error(err))
			metrics.ConsumerMessagesTotal.WithLabelValues(resultNacked).Inc()
			if err := env.Nack(ctx); err != nil {
				w.log.Error("Failed to nack envelope", zap.Error(err))
			}
			continue
		}

		stored++
		metrics.ConsumerMessagesTotal.WithLabelValues(resultAcked).Inc()
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope",
				zap.String("batch_id", env.BatchID),
				zap.Int64("uid", uid),
				zap.Error(err))
		}
	}

	w.log.Info("Flushed queued rows",
		zap.Int("stored", stored),
		zap.Int("failed", len(envelopes)-stored))
}
