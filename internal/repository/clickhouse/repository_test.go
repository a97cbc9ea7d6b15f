package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/repository/sqlbuild"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

func TestCreateTableStatement(t *testing.T) {
	ddl := createTableStatement()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS events")
	assert.Contains(t, ddl, "`timestamp` Nullable(Int64)")
	assert.Contains(t, ddl, "`category` Nullable(String)")
	assert.Contains(t, ddl, "`uid` Int64")
	assert.Contains(t, ddl, "ENGINE = MergeTree")
	assert.Contains(t, ddl, "ORDER BY `uid`")
}

func TestInsertStatement_IncludesUID(t *testing.T) {
	stmt := insertStatement()

	assert.Contains(t, stmt, "INSERT INTO events (`timestamp`, `event`")
	assert.Contains(t, stmt, "`uid`)")
}

func TestDialect_ContainsBindsRawText(t *testing.T) {
	clause, args, err := sqlbuild.Where(dialect{}, repository.Contains{Column: "raw", Text: "50%_x"})

	require.NoError(t, err)
	assert.Equal(t, "positionCaseInsensitiveUTF8(toString(`raw`), ?) > 0", clause)
	assert.Equal(t, []any{"50%_x"}, args)
}

func TestScanTargets_RoundTrip(t *testing.T) {
	cols := schema.Columns()
	dest := scanTargets(cols)

	ts := int64(1690000000)
	event := "open"
	*(dest[0].(**int64)) = &ts
	*(dest[1].(**string)) = &event
	*(dest[len(dest)-1].(*int64)) = 42

	row := toRow(cols, dest)

	assert.Equal(t, ts, row["timestamp"])
	assert.Equal(t, "open", row["event"])
	assert.Nil(t, row["email"])
	uid, ok := row.UID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), uid)
}
