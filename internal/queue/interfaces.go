package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/Wendyzhou/eventkit/internal/domain"
)

// Message attribute names set on published rows
const (
	AttrBatchID = "BatchID"
	AttrRowID   = "RowID"
	AttrEvent   = "Event"
)

// RowPublisher defines the interface for publishing mapped rows to a queue
type RowPublisher interface {
	PublishRow(ctx context.Context, row domain.Row, batchID string) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
