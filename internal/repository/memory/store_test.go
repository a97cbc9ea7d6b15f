package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/repository"
)

func seeded(t *testing.T, rows ...domain.Row) *Store {
	t.Helper()

	s := New(zap.NewNop())
	for _, r := range rows {
		_, err := s.Insert(context.Background(), r)
		require.NoError(t, err)
	}
	return s
}

func TestStore_Insert_UIDsIncrease(t *testing.T) {
	s := New(zap.NewNop())
	ctx := context.Background()

	a, err := s.Insert(ctx, domain.Row{"event": "open"})
	require.NoError(t, err)
	b, err := s.Insert(ctx, domain.Row{"event": "open"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)
}

func TestStore_Insert_RejectsUnknownColumn(t *testing.T) {
	s := New(zap.NewNop())

	_, err := s.Insert(context.Background(), domain.Row{"bogus": 1})

	assert.ErrorIs(t, err, repository.ErrPersistence)
}

func TestStore_Insert_CopiesRow(t *testing.T) {
	s := New(zap.NewNop())
	row := domain.Row{"event": "open"}

	_, err := s.Insert(context.Background(), row)
	require.NoError(t, err)
	row["event"] = "changed"

	got, err := s.Query(context.Background(), repository.Query{})
	require.NoError(t, err)
	assert.Equal(t, "open", got[0]["event"])
}

func TestStore_Query_OrderTieBreakAndLimit(t *testing.T) {
	s := seeded(t,
		domain.Row{"event": "a", "timestamp": int64(5)},
		domain.Row{"event": "b", "timestamp": int64(9)},
		domain.Row{"event": "c", "timestamp": int64(5)},
	)

	got, err := s.Query(context.Background(), repository.Query{
		OrderBy: &repository.OrderBy{Column: "timestamp", Desc: true},
		Limit:   2,
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0]["event"])
	assert.Equal(t, "c", got[1]["event"])
}

func TestStore_Predicates(t *testing.T) {
	s := seeded(t,
		domain.Row{"event": "open", "email": "A@b.com", "timestamp": int64(100)},
		domain.Row{"event": "click", "email": "a@b.com", "timestamp": int64(200)},
		domain.Row{"event": "bounce", "email": "x@y.com", "timestamp": int64(300)},
	)
	ctx := context.Background()

	tests := []struct {
		name  string
		where repository.Predicate
		want  int64
	}{
		{"nil matches all", nil, 3},
		{"contains ignores case", repository.Contains{Column: "email", Text: "a@B"}, 2},
		{"gte", repository.Compare{Column: "timestamp", Op: repository.OpGte, Value: int64(200)}, 2},
		{"lte", repository.Compare{Column: "timestamp", Op: repository.OpLte, Value: int64(200)}, 2},
		{"gt", repository.Compare{Column: "timestamp", Op: repository.OpGt, Value: int64(300)}, 0},
		{"eq text", repository.Compare{Column: "event", Op: repository.OpEq, Value: "open"}, 1},
		{"or group", repository.Or(
			repository.Contains{Column: "event", Text: "open"},
			repository.Contains{Column: "event", Text: "bounce"},
		), 2},
		{"and group", repository.And(
			repository.Contains{Column: "email", Text: "a@b"},
			repository.Compare{Column: "timestamp", Op: repository.OpGt, Value: int64(150)},
		), 1},
		{"empty or", repository.Or(), 0},
		{"null column", repository.Contains{Column: "reason", Text: ""}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, tt.where)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestStore_UnknownColumn(t *testing.T) {
	s := New(zap.NewNop())

	_, err := s.Count(context.Background(), repository.Contains{Column: "nope", Text: "x"})
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)

	_, err = s.Query(context.Background(), repository.Query{OrderBy: &repository.OrderBy{Column: "nope"}})
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)
}
