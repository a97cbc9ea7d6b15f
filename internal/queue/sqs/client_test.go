package sqs

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	envConfig "github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/queue"
)

// MockAPI is a mock implementation of the SQS api subset
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func (m *MockAPI) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.ReceiveMessageOutput), args.Error(1)
}

func (m *MockAPI) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.DeleteMessageOutput), args.Error(1)
}

const testQueueURL = "http://localhost:9324/000000000000/events"

func TestClient_PublishRow(t *testing.T) {
	api := new(MockAPI)
	c := newClient(api, envConfig.SQS{QueueURL: testQueueURL}, zap.NewNop())

	var sent *sqs.SendMessageInput
	api.On("SendMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(*sqs.SendMessageInput)
		}).
		Return(&sqs.SendMessageOutput{}, nil)

	err := c.PublishRow(context.Background(), domain.Row{"event": "open", "timestamp": int64(5)}, "batch-1")

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, testQueueURL, aws.ToString(sent.QueueUrl))
	assert.JSONEq(t, `{"event":"open","timestamp":5}`, aws.ToString(sent.MessageBody))
	assert.Equal(t, "batch-1", aws.ToString(sent.MessageAttributes[queue.AttrBatchID].StringValue))
	assert.Equal(t, "open", aws.ToString(sent.MessageAttributes[queue.AttrEvent].StringValue))
	assert.NotEmpty(t, aws.ToString(sent.MessageAttributes[queue.AttrRowID].StringValue))
}

func TestClient_PublishRow_SendFails(t *testing.T) {
	api := new(MockAPI)
	c := newClient(api, envConfig.SQS{QueueURL: testQueueURL}, zap.NewNop())
	api.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("unreachable"))

	err := c.PublishRow(context.Background(), domain.Row{"event": "open"}, "batch-1")

	assert.Error(t, err)
}

func TestClient_PublishRow_Unencodable(t *testing.T) {
	api := new(MockAPI)
	c := newClient(api, envConfig.SQS{QueueURL: testQueueURL}, zap.NewNop())

	err := c.PublishRow(context.Background(), domain.Row{"event": make(chan int)}, "batch-1")

	assert.Error(t, err)
	api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
