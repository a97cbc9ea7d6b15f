// Package backend opens the event repository selected by configuration.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/repository/clickhouse"
	"github.com/Wendyzhou/eventkit/internal/repository/memory"
	"github.com/Wendyzhou/eventkit/internal/repository/sqlstore"
)

// Open connects to the configured store. Connection failures wrap
// repository.ErrStoreUnavailable.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.EventRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		store, err := sqlstore.New(ctx, &cfg.Store, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverClickHouse:
		client, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
		if err != nil {
			return nil, err
		}
		return clickhouse.NewRepository(client, log), nil
	case config.DriverMemory:
		return memory.New(log), nil
	}
	return nil, fmt.Errorf("%w: unsupported store driver %s", repository.ErrStoreUnavailable, cfg.Store.Driver)
}
