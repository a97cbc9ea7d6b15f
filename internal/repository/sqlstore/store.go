// Package sqlstore implements the event repository on database/sql drivers
// through sqlx. SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/repository/sqlbuild"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// Store implements EventRepository on a SQL database
type Store struct {
	db      *sqlx.DB
	dialect dialect
	log     *zap.Logger
}

// New opens the database named by the store configuration and verifies the connection
func New(ctx context.Context, cfg *config.Store, log *zap.Logger) (*Store, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	log.Info("Connecting to SQL store", zap.String("driver", cfg.Driver))

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		log.Error("Failed to open SQL store", zap.Error(err))
		return nil, fmt.Errorf("%w: failed to open %s: %v", repository.ErrStoreUnavailable, cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping SQL store", zap.Error(err))
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping %s: %v", repository.ErrStoreUnavailable, cfg.Driver, err)
	}

	log.Info("SQL store connection established successfully")

	return &Store{db: db, dialect: d, log: log}, nil
}

// InitSchema creates the events table if it does not exist
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable()); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	s.log.Info("SQL schema initialized successfully", zap.String("driver", s.dialect.name))
	return nil
}

// Insert stores one row and returns its uid
func (s *Store) Insert(ctx context.Context, row domain.Row) (int64, error) {
	if err := row.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", repository.ErrPersistence, err)
	}

	stmt, args := sqlbuild.Insert(s.dialect, row)
	stmt = s.db.Rebind(stmt)

	if s.dialect.returning {
		var uid int64
		if err := s.db.QueryRowxContext(ctx, stmt+" RETURNING "+s.dialect.Quote(schema.ColUID), args...).Scan(&uid); err != nil {
			return 0, fmt.Errorf("%w: failed to insert event: %v", repository.ErrPersistence, err)
		}
		return uid, nil
	}

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to insert event: %v", repository.ErrPersistence, err)
	}

	uid, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read assigned uid: %v", repository.ErrPersistence, err)
	}
	return uid, nil
}

// Query returns the rows matching q
func (s *Store) Query(ctx context.Context, q repository.Query) ([]domain.Row, error) {
	stmt, args, err := sqlbuild.Select(s.dialect, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query events: %v", repository.ErrPersistence, err)
	}
	defer func(rows *sqlx.Rows) {
		if err := rows.Close(); err != nil {
			s.log.Error("Failed to close event rows", zap.Error(err))
		}
	}(rows)

	result := []domain.Row{}
	for rows.Next() {
		m := make(map[string]any)
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("%w: failed to scan event row: %v", repository.ErrPersistence, err)
		}
		result = append(result, normalize(m))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating event rows: %v", repository.ErrPersistence, err)
	}

	return result, nil
}

// Count returns the number of rows matching where
func (s *Store) Count(ctx context.Context, where repository.Predicate) (int64, error) {
	stmt, args, err := sqlbuild.Count(s.dialect, where)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowxContext(ctx, s.db.Rebind(stmt), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count events: %v", repository.ErrPersistence, err)
	}
	return n, nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle
func (s *Store) Close() error {
	s.log.Info("Closing SQL store")
	return s.db.Close()
}

// normalize turns driver byte slices into strings so rows carry the same
// value types regardless of the driver
func normalize(m map[string]any) domain.Row {
	row := make(domain.Row, len(m))
	for k, v := range m {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
			continue
		}
		row[k] = v
	}
	return row
}
