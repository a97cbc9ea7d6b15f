// Package memory implements the event repository in process memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// Store keeps rows in insertion order behind a RWMutex
type Store struct {
	mu      sync.RWMutex
	rows    []domain.Row
	nextUID int64
	log     *zap.Logger
}

// New creates an empty in-memory store
func New(log *zap.Logger) *Store {
	return &Store{nextUID: 1, log: log}
}

// InitSchema is a no-op; the layout is fixed
func (s *Store) InitSchema(ctx context.Context) error {
	s.log.Info("Memory store ready")
	return nil
}

// Insert stores a copy of the row and returns its uid
func (s *Store) Insert(ctx context.Context, row domain.Row) (int64, error) {
	if err := row.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", repository.ErrPersistence, err)
	}

	stored := make(domain.Row, len(schema.Names()))
	for _, name := range schema.Names() {
		stored[name] = row[name]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uid := s.nextUID
	s.nextUID++
	stored[schema.ColUID] = uid
	s.rows = append(s.rows, stored)

	return uid, nil
}

// Query returns copies of the rows matching q
func (s *Store) Query(ctx context.Context, q repository.Query) ([]domain.Row, error) {
	if err := repository.ValidateQuery(q); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]domain.Row, 0)
	for _, row := range s.rows {
		if match(q.Where, row) {
			matched = append(matched, row.Clone())
		}
	}
	s.mu.RUnlock()

	if q.OrderBy != nil {
		col, desc := q.OrderBy.Column, q.OrderBy.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i][col], matched[j][col])
			if c == 0 {
				ui, _ := matched[i].UID()
				uj, _ := matched[j].UID()
				c = cmpInt(ui, uj)
			}
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of rows matching where
func (s *Store) Count(ctx context.Context, where repository.Predicate) (int64, error) {
	if err := repository.Validate(where); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, row := range s.rows {
		if match(where, row) {
			n++
		}
	}
	return n, nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close drops every stored row
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	return nil
}

func match(p repository.Predicate, row domain.Row) bool {
	switch t := p.(type) {
	case nil:
		return true
	case repository.Compare:
		v := row[t.Column]
		if v == nil || t.Value == nil {
			return false
		}
		c := compare(v, t.Value)
		switch t.Op {
		case repository.OpEq:
			return c == 0
		case repository.OpGt:
			return c > 0
		case repository.OpGte:
			return c >= 0
		case repository.OpLte:
			return c <= 0
		}
		return false
	case repository.Contains:
		v := row[t.Column]
		if v == nil {
			return false
		}
		return strings.Contains(strings.ToLower(text(v)), strings.ToLower(t.Text))
	case repository.Group:
		if t.Join == repository.JoinOr {
			for _, item := range t.Items {
				if match(item, row) {
					return true
				}
			}
			return false
		}
		for _, item := range t.Items {
			if !match(item, row) {
				return false
			}
		}
		return true
	}
	return false
}

// compare orders numbers numerically and everything else as text; nil sorts first
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(text(a), text(b))
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return fmt.Sprint(v)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
