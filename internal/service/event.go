package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/ingest"
	"github.com/Wendyzhou/eventkit/internal/metrics"
	"github.com/Wendyzhou/eventkit/internal/query"
)

// modeInvalid labels searches whose mode is missing or unknown
const modeInvalid = "invalid"

// EventService represents event service
type EventService struct {
	pipeline   BatchProcessor
	translator QueryRunner
	store      Pinger
	log        *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(pipeline BatchProcessor, translator QueryRunner, store Pinger, log *zap.Logger) *EventService {
	return &EventService{
		pipeline:   pipeline,
		translator: translator,
		store:      store,
		log:        log,
	}
}

// IngestBatch processes one webhook batch body
func (s *EventService) IngestBatch(ctx context.Context, body []byte) (ingest.Outcome, error) {
	out, err := s.pipeline.Process(ctx, body)
	if err != nil {
		s.log.Warn("Batch rejected",
			zap.Int("body_size", len(body)),
			zap.Error(err))
		return ingest.Outcome{}, err
	}
	return out, nil
}

// Search runs a query. It never fails: invalid queries yield the zero
// result of their mode.
func (s *EventService) Search(ctx context.Context, params query.Params) query.Result {
	res := s.translator.Run(ctx, params)

	metrics.QueriesTotal.WithLabelValues(modeLabel(res.Mode)).Inc()

	s.log.Debug("Search executed",
		zap.String("mode", res.Mode),
		zap.Int("rows", len(res.Rows)),
		zap.Int64("count", res.Count))

	return res
}

// Health pings the store
func (s *EventService) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping store: %w", err)
	}
	return nil
}

func modeLabel(mode string) string {
	switch mode {
	case query.ModeRecent, query.ModeTotal, query.ModeWildcard, query.ModeEmailStats, query.ModeDetailed:
		return mode
	}
	return modeInvalid
}
