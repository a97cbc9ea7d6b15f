package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/ingest"
	"github.com/Wendyzhou/eventkit/internal/mapper"
	"github.com/Wendyzhou/eventkit/internal/metrics"
	"github.com/Wendyzhou/eventkit/internal/query"
	"github.com/Wendyzhou/eventkit/internal/repository/memory"
)

const testCurrentTime int64 = 1766702551

// MockBatchProcessor is a mock implementation of BatchProcessor
type MockBatchProcessor struct {
	mock.Mock
}

func (m *MockBatchProcessor) Process(ctx context.Context, body []byte) (ingest.Outcome, error) {
	args := m.Called(ctx, body)
	return args.Get(0).(ingest.Outcome), args.Error(1)
}

// MockQueryRunner is a mock implementation of QueryRunner
type MockQueryRunner struct {
	mock.Mock
}

func (m *MockQueryRunner) Run(ctx context.Context, params query.Params) query.Result {
	args := m.Called(ctx, params)
	return args.Get(0).(query.Result)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestEventService_IngestBatch_Success(t *testing.T) {
	mockPipeline := new(MockBatchProcessor)
	service := NewEventService(mockPipeline, new(MockQueryRunner), new(MockPinger), zap.NewNop())

	body := []byte(`[{"event":"open"}]`)
	want := ingest.Outcome{BatchID: "b-1", Received: 1, Accepted: 1}
	mockPipeline.On("Process", mock.Anything, body).Return(want, nil)

	out, err := service.IngestBatch(context.Background(), body)

	assert.NoError(t, err)
	assert.Equal(t, want, out)
	mockPipeline.AssertExpectations(t)
}

func TestEventService_IngestBatch_Rejected(t *testing.T) {
	mockPipeline := new(MockBatchProcessor)
	service := NewEventService(mockPipeline, new(MockQueryRunner), new(MockPinger), zap.NewNop())

	body := []byte(`{}`)
	mockPipeline.On("Process", mock.Anything, body).Return(ingest.Outcome{}, ingest.ErrShape)

	out, err := service.IngestBatch(context.Background(), body)

	assert.ErrorIs(t, err, ingest.ErrShape)
	assert.Equal(t, ingest.Outcome{}, out)
}

func TestEventService_Search_CountsMode(t *testing.T) {
	mockRunner := new(MockQueryRunner)
	service := NewEventService(new(MockBatchProcessor), mockRunner, new(MockPinger), zap.NewNop())

	params := query.Params{query.ParamQuery: query.Scalar(query.ModeTotal)}
	mockRunner.On("Run", mock.Anything, params).
		Return(query.Result{Mode: query.ModeTotal, Kind: query.KindCount, Count: 7})

	before := testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(query.ModeTotal))

	res := service.Search(context.Background(), params)

	assert.Equal(t, int64(7), res.Count)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(query.ModeTotal)))
	mockRunner.AssertExpectations(t)
}

func TestEventService_Search_UnknownModeLabel(t *testing.T) {
	mockRunner := new(MockQueryRunner)
	service := NewEventService(new(MockBatchProcessor), mockRunner, new(MockPinger), zap.NewNop())

	params := query.Params{query.ParamQuery: query.Scalar("drop table")}
	mockRunner.On("Run", mock.Anything, params).
		Return(query.Result{Mode: "drop table", Kind: query.KindRows, Rows: []domain.Row{}})

	before := testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(modeInvalid))

	res := service.Search(context.Background(), params)

	assert.Empty(t, res.Rows)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(modeInvalid)))
}

func TestEventService_Health(t *testing.T) {
	mockStore := new(MockPinger)
	service := NewEventService(new(MockBatchProcessor), new(MockQueryRunner), mockStore, zap.NewNop())

	mockStore.On("Ping", mock.Anything).Return(nil).Once()
	assert.NoError(t, service.Health(context.Background()))

	mockStore.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	err := service.Health(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEventService_IngestThenSearch(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Unix(testCurrentTime, 0) }
	store := memory.New(zap.NewNop())

	pipeline := ingest.NewPipeline(mapper.New(mapper.WithClock(clock)), ingest.NewStoreWriter(store, zap.NewNop()), zap.NewNop())
	translator := query.NewTranslator(store, config.Query{DefaultLimit: 5, DefaultHours: 24, MaxLimit: 100}, zap.NewNop(), query.WithClock(clock))
	service := NewEventService(pipeline, translator, store, zap.NewNop())

	out, err := service.IngestBatch(ctx, []byte(`[
		{"event":"delivered","email":"a@b.com","timestamp":1690000000},
		{"event":"open","email":"a@b.com","timestamp":1690000100}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Accepted)

	total := service.Search(ctx, query.Params{query.ParamQuery: query.Scalar(query.ModeTotal)})
	assert.Equal(t, int64(2), total.Count)

	recent := service.Search(ctx, query.Params{
		query.ParamQuery: query.Scalar(query.ModeRecent),
		query.ParamLimit: query.Scalar("1"),
	})
	require.Len(t, recent.Rows, 1)
	assert.Equal(t, "open", recent.Rows[0]["event"])
}
