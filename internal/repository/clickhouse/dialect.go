package clickhouse

import (
	"fmt"
	"strings"

	"github.com/Wendyzhou/eventkit/internal/schema"
)

// dialect renders identifiers and substring matches for ClickHouse
type dialect struct{}

func (dialect) Quote(column string) string {
	return "`" + column + "`"
}

func (dialect) Contains(quoted, text string) (string, any) {
	return fmt.Sprintf("positionCaseInsensitiveUTF8(toString(%s), ?) > 0", quoted), text
}

func createTableStatement() string {
	cols := schema.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		var typ string
		switch c.Type {
		case schema.TypeInt:
			typ = "Nullable(Int64)"
		case schema.TypeIdentity:
			typ = "Int64"
		default:
			typ = "Nullable(String)"
		}
		defs[i] = dialect{}.Quote(c.Name) + " " + typ
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s
) ENGINE = MergeTree
ORDER BY %s
SETTINGS index_granularity = 8192`, schema.Table, strings.Join(defs, ",\n\t"), dialect{}.Quote(schema.ColUID))
}

func insertStatement() string {
	names := schema.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = dialect{}.Quote(n)
	}
	return fmt.Sprintf("INSERT INTO %s (%s)", schema.Table, strings.Join(quoted, ", "))
}
