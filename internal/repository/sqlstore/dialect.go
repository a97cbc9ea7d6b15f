package sqlstore

import (
	"fmt"
	"strings"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/repository/sqlbuild"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// dialect is the per-driver part of the SQL the store issues
type dialect struct {
	name       string
	intType    string
	textType   string
	identity   string
	returning  bool
	castToText bool
	like       string
}

var dialects = map[string]dialect{
	config.DriverSQLite: {
		name:     config.DriverSQLite,
		intType:  "INTEGER",
		textType: "TEXT",
		identity: "INTEGER PRIMARY KEY AUTOINCREMENT",
		like:     "LIKE",
	},
	config.DriverPostgres: {
		name:       config.DriverPostgres,
		intType:    "BIGINT",
		textType:   "TEXT",
		identity:   "BIGSERIAL PRIMARY KEY",
		returning:  true,
		castToText: true,
		like:       "ILIKE",
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported sql driver: %s", driver)
	}
	return d, nil
}

// Quote implements sqlbuild.Dialect
func (d dialect) Quote(column string) string {
	return `"` + column + `"`
}

// Contains implements sqlbuild.Dialect. SQLite LIKE folds ASCII letters only;
// non-ASCII text matches case-sensitively there.
func (d dialect) Contains(quoted, text string) (string, any) {
	expr := quoted
	if d.castToText {
		expr = "CAST(" + quoted + " AS TEXT)"
	}
	return fmt.Sprintf(`%s %s ? ESCAPE '\'`, expr, d.like), "%" + sqlbuild.EscapeLike(text) + "%"
}

func (d dialect) createTable() string {
	cols := schema.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		var typ string
		switch c.Type {
		case schema.TypeInt:
			typ = d.intType
		case schema.TypeIdentity:
			typ = d.identity
		default:
			typ = d.textType
		}
		defs[i] = d.Quote(c.Name) + " " + typ
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", schema.Table, strings.Join(defs, ",\n\t"))
}
