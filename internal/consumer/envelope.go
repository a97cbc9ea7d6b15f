package consumer

import (
	"context"

	"github.com/Wendyzhou/eventkit/internal/domain"
)

// Envelope carries one queued row with its acknowledgment callbacks
type Envelope struct {
	Row     domain.Row
	BatchID string
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(row domain.Row, batchID string, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Row:     row,
		BatchID: batchID,
		ack:     ack,
		nack:    nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
