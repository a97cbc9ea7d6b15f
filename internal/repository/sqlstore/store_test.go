package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	s, err := New(ctx, &config.Store{Driver: config.DriverSQLite, DSN: ":memory:", MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.InitSchema(ctx))

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Store{Driver: "oracle"}, zap.NewNop())

	assert.Error(t, err)
}

func TestStore_InitSchema_Idempotent(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.InitSchema(context.Background()))
}

func TestStore_Insert_AssignsIncreasingUIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Insert(ctx, domain.Row{"event": "open", "timestamp": int64(1)})
	require.NoError(t, err)
	second, err := s.Insert(ctx, domain.Row{"event": "click", "timestamp": int64(2)})
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestStore_Insert_RejectsIdentity(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert(context.Background(), domain.Row{"event": "open", "uid": int64(7)})

	assert.ErrorIs(t, err, repository.ErrPersistence)
}

func TestStore_QueryAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []domain.Row{
		{"event": "open", "email": "a@b.com", "timestamp": int64(100), "raw": `{"event":"open","note":"50% OFF"}`},
		{"event": "click", "email": "a@b.com", "timestamp": int64(300), "raw": `{"event":"click"}`},
		{"event": "open", "email": "c@d.com", "timestamp": int64(200), "raw": `{"event":"open"}`},
	}
	for _, r := range rows {
		_, err := s.Insert(ctx, r)
		require.NoError(t, err)
	}

	got, err := s.Query(ctx, repository.Query{
		OrderBy: &repository.OrderBy{Column: "timestamp", Desc: true},
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "click", got[0]["event"])
	assert.Equal(t, int64(300), got[0]["timestamp"])
	assert.Equal(t, "c@d.com", got[1]["email"])
	uid, ok := got[0].UID()
	assert.True(t, ok)
	assert.Equal(t, int64(2), uid)

	n, err := s.Count(ctx, repository.And(
		repository.Compare{Column: "email", Op: repository.OpEq, Value: "a@b.com"},
		repository.Compare{Column: "event", Op: repository.OpEq, Value: "open"},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStore_Contains_CaseInsensitiveAndLiteralWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, domain.Row{"event": "open", "raw": `{"note":"50% OFF"}`})
	require.NoError(t, err)
	_, err = s.Insert(ctx, domain.Row{"event": "open", "raw": `{"note":"500 off"}`})
	require.NoError(t, err)

	got, err := s.Query(ctx, repository.Query{Where: repository.Contains{Column: "raw", Text: "50% off"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, `{"note":"50% OFF"}`, got[0]["raw"])

	got, err = s.Query(ctx, repository.Query{Where: repository.Contains{Column: "raw", Text: "_"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Contains_SQLiteFoldsASCIIOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, domain.Row{"event": "open", "raw": `{"city":"ÉVORA Lisbon"}`})
	require.NoError(t, err)

	got, err := s.Query(ctx, repository.Query{Where: repository.Contains{Column: "raw", Text: "lisBON"}})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.Query(ctx, repository.Query{Where: repository.Contains{Column: "raw", Text: "ÉVORA"}})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.Query(ctx, repository.Query{Where: repository.Contains{Column: "raw", Text: "évora"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Query_HostileTextIsInert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, domain.Row{"event": "open"})
	require.NoError(t, err)

	got, err := s.Query(ctx, repository.Query{Where: repository.Contains{Column: "raw", Text: `'; DROP TABLE events; --`}})
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := s.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_Query_UnknownColumn(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Query(context.Background(), repository.Query{Where: repository.Contains{Column: "nope", Text: "x"}})

	assert.ErrorIs(t, err, repository.ErrUnknownColumn)
}

func TestDialect_Postgres(t *testing.T) {
	d, err := lookupDialect(config.DriverPostgres)
	require.NoError(t, err)

	expr, arg := d.Contains(d.Quote("timestamp"), "1_0")

	assert.Equal(t, `CAST("timestamp" AS TEXT) ILIKE ? ESCAPE '\'`, expr)
	assert.Equal(t, `%1\_0%`, arg)
	assert.Contains(t, d.createTable(), `"uid" BIGSERIAL PRIMARY KEY`)
	assert.Contains(t, d.createTable(), `"timestamp" BIGINT`)
}

func TestDialect_SQLite(t *testing.T) {
	d, err := lookupDialect(config.DriverSQLite)
	require.NoError(t, err)

	ddl := d.createTable()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS events")
	assert.Contains(t, ddl, `"uid" INTEGER PRIMARY KEY AUTOINCREMENT`)
	assert.Contains(t, ddl, `"raw" TEXT`)
}
