package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/logger"
	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/repository/backend"
)

const defaultEnvironment = "development"

// storeFlags override the store settings read from the environment
type storeFlags struct {
	driver string
	dsn    string
}

// session is an opened store plus the config and logger it was opened with
type session struct {
	cfg  *config.Config
	log  *zap.Logger
	repo repository.EventRepository
}

func newRootCmd() *cobra.Command {
	flags := &storeFlags{}

	root := &cobra.Command{
		Use:           "eventctl",
		Short:         "Manage and query the notification event store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.driver, "driver", "", "store driver (sqlite3, postgres, clickhouse, memory); overrides STORE_DRIVER")
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "store DSN; overrides STORE_DSN")

	root.AddCommand(
		newSchemaCmd(flags),
		newIngestCmd(flags),
		newQueryCmd(flags),
	)

	return root
}

func loadConfig(flags *storeFlags) (*config.Config, error) {
	if os.Getenv("SERVICE_ENVIRONMENT") == "" {
		if err := os.Setenv("SERVICE_ENVIRONMENT", defaultEnvironment); err != nil {
			return nil, fmt.Errorf("failed to set default environment: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if flags.driver != "" {
		cfg.Store.Driver = flags.driver
	}
	if flags.dsn != "" {
		cfg.Store.DSN = flags.dsn
	}
	// the CLI always writes straight to the store
	cfg.Ingest.Mode = config.IngestModeDirect

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSession(ctx context.Context, flags *storeFlags) (*session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	repo, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}

	return &session{cfg: cfg, log: log, repo: repo}, nil
}

func (s *session) Close() {
	if err := s.repo.Close(); err != nil {
		s.log.Error("Failed to close event store", zap.Error(err))
	}
	_ = s.log.Sync()
}
