package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	envConfig "github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/queue"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// api is the subset of the SQS client used here
type api interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Client represents an SQS client
type Client struct {
	client api
	config envConfig.SQS
	log    *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, sqsConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(sqsConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// local development against ElasticMQ
	if sqsConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", sqsConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(sqsConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", sqsConfig.Region),
		zap.String("queue_url", sqsConfig.QueueURL))

	return newClient(sqs.NewFromConfig(cfg, clientOpts...), sqsConfig, log), nil
}

func newClient(client api, sqsConfig envConfig.SQS, log *zap.Logger) *Client {
	return &Client{
		client: client,
		config: sqsConfig,
		log:    log,
	}
}

// ReceiveMessages receives messages from SQS
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.config.QueueURL
}

// PublishRow publishes one mapped row as a JSON message
func (c *Client) PublishRow(ctx context.Context, row domain.Row, batchID string) error {
	rowID := uuid.NewString()

	bodyJSON, err := json.Marshal(row)
	if err != nil {
		c.log.Error("Failed to marshal row",
			zap.String("batch_id", batchID),
			zap.String("row_id", rowID),
			zap.Error(err))
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	attrs := map[string]types.MessageAttributeValue{
		queue.AttrBatchID: {
			DataType:    aws.String("String"),
			StringValue: aws.String(batchID),
		},
		queue.AttrRowID: {
			DataType:    aws.String("String"),
			StringValue: aws.String(rowID),
		},
	}
	if event, ok := row.String(schema.ColEvent); ok && event != "" {
		attrs[queue.AttrEvent] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(event),
		}
	}

	_, err = c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(c.config.QueueURL),
		MessageBody:       aws.String(string(bodyJSON)),
		MessageAttributes: attrs,
	})
	if err != nil {
		c.log.Error("Failed to send message to SQS",
			zap.String("batch_id", batchID),
			zap.String("row_id", rowID),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Debug("Row published to SQS",
		zap.String("batch_id", batchID),
		zap.String("row_id", rowID))

	return nil
}
