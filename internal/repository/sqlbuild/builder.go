// Package sqlbuild renders predicate trees and queries into SQL with '?'
// placeholders. Column names come from the schema only; every value is
// returned as a bind argument.
package sqlbuild

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// Dialect covers the parts of the SQL text that differ between backends
type Dialect interface {
	// Quote returns the quoted identifier for a schema column
	Quote(column string) string
	// Contains returns a case-insensitive substring expression over the
	// already quoted column and the argument bound to its placeholder
	Contains(quoted, text string) (string, any)
}

// Where renders the predicate as a boolean expression. A nil predicate renders as "".
func Where(d Dialect, p repository.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	if err := repository.Validate(p); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	var args []any
	render(d, p, &b, &args)
	return b.String(), args, nil
}

func render(d Dialect, p repository.Predicate, b *strings.Builder, args *[]any) {
	switch t := p.(type) {
	case repository.Compare:
		b.WriteString(d.Quote(t.Column))
		b.WriteString(" ")
		b.WriteString(string(t.Op))
		b.WriteString(" ?")
		*args = append(*args, t.Value)
	case repository.Contains:
		expr, arg := d.Contains(d.Quote(t.Column), t.Text)
		b.WriteString(expr)
		*args = append(*args, arg)
	case repository.Group:
		if len(t.Items) == 0 {
			if t.Join == repository.JoinOr {
				b.WriteString("1 = 0")
			} else {
				b.WriteString("1 = 1")
			}
			return
		}
		b.WriteString("(")
		for i, item := range t.Items {
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(string(t.Join))
				b.WriteString(" ")
			}
			render(d, item, b, args)
		}
		b.WriteString(")")
	}
}

// Select renders a full SELECT over the events table
func Select(d Dialect, q repository.Query) (string, []any, error) {
	if err := repository.ValidateQuery(q); err != nil {
		return "", nil, err
	}

	names := schema.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.Quote(n)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(quoted, ", "), schema.Table)

	where, args, err := Where(d, q.Where)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	if q.OrderBy != nil {
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", d.Quote(q.OrderBy.Column), dir)
		if q.OrderBy.Column != schema.ColUID {
			fmt.Fprintf(&b, ", %s %s", d.Quote(schema.ColUID), dir)
		}
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}

	return b.String(), args, nil
}

// Count renders a SELECT count over the events table
func Count(d Dialect, where repository.Predicate) (string, []any, error) {
	clause, args, err := Where(d, where)
	if err != nil {
		return "", nil, err
	}

	stmt := "SELECT count(*) FROM " + schema.Table
	if clause != "" {
		stmt += " WHERE " + clause
	}
	return stmt, args, nil
}

// Insert renders an INSERT of every writable column and returns the
// row's values in column order, nil for absent columns
func Insert(d Dialect, row map[string]any) (string, []any) {
	cols := schema.InsertColumns()
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c.Name)
		marks[i] = "?"
		args[i] = row[c.Name]
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.Table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	return stmt, args
}

// EscapeLike escapes the LIKE wildcards of text with a backslash
func EscapeLike(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(text)
}
