package clickhouse

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/repository/sqlbuild"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// Repository implements EventRepository for ClickHouse.
// ClickHouse has no auto-increment, so uids come from a counter seeded with
// the current max(uid); one writer process per table is assumed.
type Repository struct {
	client *Client
	log    *zap.Logger

	mu      sync.Mutex
	seeded  bool
	lastUID int64
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the ClickHouse schema with a MergeTree ordered by uid
func (r *Repository) InitSchema(ctx context.Context) error {
	if err := r.client.Conn().Exec(ctx, createTableStatement()); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// Insert appends one row and returns its uid
func (r *Repository) Insert(ctx context.Context, row domain.Row) (int64, error) {
	if err := row.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", repository.ErrPersistence, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.seed(ctx); err != nil {
		return 0, err
	}
	uid := r.lastUID + 1

	batch, err := r.client.Conn().PrepareBatch(ctx, insertStatement())
	if err != nil {
		return 0, fmt.Errorf("%w: failed to prepare batch: %v", repository.ErrPersistence, err)
	}

	cols := schema.Columns()
	values := make([]any, len(cols))
	for i, c := range cols {
		if c.Type == schema.TypeIdentity {
			values[i] = uid
			continue
		}
		values[i] = row[c.Name]
	}

	if err := batch.Append(values...); err != nil {
		_ = batch.Abort()
		return 0, fmt.Errorf("%w: failed to append event to batch: %v", repository.ErrPersistence, err)
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("%w: failed to send batch: %v", repository.ErrPersistence, err)
	}

	r.lastUID = uid
	return uid, nil
}

// seed reads max(uid) once; callers hold r.mu
func (r *Repository) seed(ctx context.Context) error {
	if r.seeded {
		return nil
	}

	var maxUID int64
	stmt := fmt.Sprintf("SELECT max(%s) FROM %s", dialect{}.Quote(schema.ColUID), schema.Table)
	if err := r.client.Conn().QueryRow(ctx, stmt).Scan(&maxUID); err != nil {
		return fmt.Errorf("%w: failed to read max uid: %v", repository.ErrPersistence, err)
	}

	r.lastUID = maxUID
	r.seeded = true
	r.log.Debug("Seeded uid counter", zap.Int64("uid", maxUID))
	return nil
}

// Query returns the rows matching q
func (r *Repository) Query(ctx context.Context, q repository.Query) ([]domain.Row, error) {
	stmt, args, err := sqlbuild.Select(dialect{}, q)
	if err != nil {
		return nil, err
	}

	rows, err := r.client.Conn().Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query events: %v", repository.ErrPersistence, err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close event rows", zap.Error(err))
		}
	}(rows)

	cols := schema.Columns()
	result := []domain.Row{}
	for rows.Next() {
		dest := scanTargets(cols)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan event row: %v", repository.ErrPersistence, err)
		}
		result = append(result, toRow(cols, dest))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating event rows: %v", repository.ErrPersistence, err)
	}

	return result, nil
}

// Count returns the number of rows matching where
func (r *Repository) Count(ctx context.Context, where repository.Predicate) (int64, error) {
	stmt, args, err := sqlbuild.Count(dialect{}, where)
	if err != nil {
		return 0, err
	}

	var n uint64
	if err := r.client.Conn().QueryRow(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count events: %v", repository.ErrPersistence, err)
	}
	return int64(n), nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func scanTargets(cols []schema.Column) []any {
	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c.Type {
		case schema.TypeInt:
			dest[i] = new(*int64)
		case schema.TypeIdentity:
			dest[i] = new(int64)
		default:
			dest[i] = new(*string)
		}
	}
	return dest
}

func toRow(cols []schema.Column, dest []any) domain.Row {
	row := make(domain.Row, len(cols))
	for i, c := range cols {
		switch v := dest[i].(type) {
		case **int64:
			if *v != nil {
				row[c.Name] = **v
			} else {
				row[c.Name] = nil
			}
		case **string:
			if *v != nil {
				row[c.Name] = **v
			} else {
				row[c.Name] = nil
			}
		case *int64:
			row[c.Name] = *v
		}
	}
	return row
}
