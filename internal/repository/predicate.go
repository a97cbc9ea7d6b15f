package repository

import (
	"fmt"

	"github.com/Wendyzhou/eventkit/internal/schema"
)

// Op is a comparison operator
type Op string

const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLte Op = "<="
)

// Join combines the items of a Group
type Join string

const (
	JoinAnd Join = "AND"
	JoinOr  Join = "OR"
)

// Predicate is a node of a filter tree. Values never become part of the
// statement text; backends bind them as parameters.
type Predicate interface {
	predicate()
}

// Compare matches rows whose column compares to Value with Op
type Compare struct {
	Column string
	Op     Op
	Value  any
}

// Contains matches rows whose column holds Text as a case-insensitive substring.
// Wildcard characters in Text match literally. Folding is backend specific:
// sqlite LIKE folds ASCII letters only, the other stores fold Unicode.
type Contains struct {
	Column string
	Text   string
}

// Group joins its items with AND or OR. An empty AND group matches every
// row, an empty OR group matches none.
type Group struct {
	Join  Join
	Items []Predicate
}

func (Compare) predicate()  {}
func (Contains) predicate() {}
func (Group) predicate()    {}

// And groups the non-nil items with AND
func And(items ...Predicate) Predicate {
	return group(JoinAnd, items)
}

// Or groups the non-nil items with OR
func Or(items ...Predicate) Predicate {
	return group(JoinOr, items)
}

func group(join Join, items []Predicate) Predicate {
	kept := make([]Predicate, 0, len(items))
	for _, item := range items {
		if item != nil {
			kept = append(kept, item)
		}
	}
	return Group{Join: join, Items: kept}
}

// Validate checks every column and operator of the tree. A nil predicate is valid.
func Validate(p Predicate) error {
	switch t := p.(type) {
	case nil:
		return nil
	case Compare:
		if err := validColumn(t.Column); err != nil {
			return err
		}
		switch t.Op {
		case OpEq, OpGt, OpGte, OpLte:
			return nil
		}
		return fmt.Errorf("unsupported operator %q", t.Op)
	case Contains:
		return validColumn(t.Column)
	case Group:
		if t.Join != JoinAnd && t.Join != JoinOr {
			return fmt.Errorf("unsupported join %q", t.Join)
		}
		for _, item := range t.Items {
			if err := Validate(item); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported predicate %T", p)
}

// ValidateQuery checks the predicate and the ordering of q
func ValidateQuery(q Query) error {
	if err := Validate(q.Where); err != nil {
		return err
	}
	if q.OrderBy != nil {
		if err := validColumn(q.OrderBy.Column); err != nil {
			return err
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("negative limit %d", q.Limit)
	}
	return nil
}

func validColumn(name string) error {
	if _, ok := schema.Lookup(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return nil
}
