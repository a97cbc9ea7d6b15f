// Package ingest validates notification batches and writes each item.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/mapper"
	"github.com/Wendyzhou/eventkit/internal/metrics"
)

// Outcome summarizes one processed batch
type Outcome struct {
	BatchID  string `json:"batch_id"`
	Received int    `json:"received"`
	Accepted int    `json:"accepted"`
	Skipped  int    `json:"skipped"`
}

// Pipeline maps and writes notification batches
type Pipeline struct {
	mapper RowMapper
	writer Writer
	log    *zap.Logger
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(m RowMapper, w Writer, log *zap.Logger) *Pipeline {
	return &Pipeline{
		mapper: m,
		writer: w,
		log:    log,
	}
}

// Process validates the whole body before writing anything, then maps and
// writes every element. Items that fail are logged and skipped.
func (p *Pipeline) Process(ctx context.Context, body []byte) (Outcome, error) {
	notifications, err := Parse(body)
	if err != nil {
		reason := metrics.ReasonShape
		if errors.Is(err, ErrParse) {
			reason = metrics.ReasonParse
		}
		metrics.BatchesRejectedTotal.WithLabelValues(reason).Inc()
		return Outcome{}, err
	}

	out := Outcome{
		BatchID:  uuid.NewString(),
		Received: len(notifications),
	}
	metrics.NotificationsReceivedTotal.Add(float64(out.Received))

	for i, n := range notifications {
		if err := p.processOne(ctx, out.BatchID, n); err != nil {
			out.Skipped++
			if errors.Is(err, mapper.ErrMissingField) {
				metrics.NotificationsSkippedTotal.WithLabelValues(metrics.ReasonMissingField).Inc()
				p.log.Warn("Skipping notification",
					zap.String("batch_id", out.BatchID),
					zap.Int("index", i),
					zap.Error(err))
				continue
			}
			metrics.NotificationsSkippedTotal.WithLabelValues(metrics.ReasonPersistence).Inc()
			p.log.Error("Failed to write notification",
				zap.String("batch_id", out.BatchID),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		out.Accepted++
	}
	metrics.NotificationsAcceptedTotal.Add(float64(out.Accepted))

	p.log.Info("Batch processed",
		zap.String("batch_id", out.BatchID),
		zap.Int("received", out.Received),
		zap.Int("accepted", out.Accepted),
		zap.Int("skipped", out.Skipped))

	return out, nil
}

func (p *Pipeline) processOne(ctx context.Context, batchID string, n domain.Notification) error {
	row, err := p.mapper.Map(n)
	if err != nil {
		return err
	}
	return p.writer.Write(ctx, batchID, row)
}

// Parse decodes a batch body into notifications. Numbers are kept as
// json.Number and each element keeps its original encoding.
func Parse(body []byte) ([]domain.Notification, error) {
	if !json.Valid(body) {
		return nil, ErrParse
	}

	var elements []json.RawMessage
	if trimmed := bytes.TrimSpace(body); trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level is not an array", ErrShape)
	}
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("%w: top level is not an array", ErrShape)
	}

	notifications := make([]domain.Notification, 0, len(elements))
	for i, raw := range elements {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()

		var fields map[string]any
		if err := dec.Decode(&fields); err != nil || fields == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrShape, i)
		}
		notifications = append(notifications, domain.Notification{Fields: fields, Raw: raw})
	}

	return notifications, nil
}
