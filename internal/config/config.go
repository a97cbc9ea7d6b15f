package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Ingestion modes
const (
	IngestModeDirect = "direct"
	IngestModeQueue  = "queue"
)

// Store drivers
const (
	DriverSQLite     = "sqlite3"
	DriverPostgres   = "postgres"
	DriverClickHouse = "clickhouse"
	DriverMemory     = "memory"
)

type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Store      Store      `envconfig:"STORE"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	Ingest     Ingest     `envconfig:"INGEST"`
	SQS        SQS        `envconfig:"SQS"`
	Consumer   Consumer   `envconfig:"CONSUMER"`
	Query      Query      `envconfig:"QUERY"`
}

type Service struct {
	Environment  string `envconfig:"ENVIRONMENT" required:"true"`
	APIPort      string `envconfig:"API_PORT" default:"8080"`
	Host         string `envconfig:"HOST" default:"localhost:8080"`
	MaxBodyBytes int64  `envconfig:"MAX_BODY_BYTES" default:"10485760"`
}

type Store struct {
	Driver             string `envconfig:"DRIVER" default:"sqlite3"`
	DSN                string `envconfig:"DSN" default:"eventkit.db"`
	MaxOpenConns       int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns       int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetimeSec int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type ClickHouse struct {
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            string `envconfig:"PORT" default:"9000"`
	Database        string `envconfig:"DB" default:"default"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	UseTLS          bool   `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Ingest struct {
	Mode string `envconfig:"MODE" default:"direct"`
}

type SQS struct {
	Endpoint string `envconfig:"ENDPOINT"`
	QueueURL string `envconfig:"QUEUE_URL"`
	Region   string `envconfig:"REGION" default:"eu-central-1"`
}

type Consumer struct {
	BatchSizeMax    int    `envconfig:"BATCH_SIZE_MAX" default:"500"`
	BatchTimeoutSec int    `envconfig:"BATCH_TIMEOUT_SEC" default:"5"`
	HealthCheckPort string `envconfig:"HEALTH_CHECK_PORT" default:"8081"`
}

type Query struct {
	DefaultLimit int      `envconfig:"DEFAULT_LIMIT" default:"5"`
	DefaultHours float64  `envconfig:"DEFAULT_HOURS" default:"24"`
	MaxLimit     int      `envconfig:"MAX_LIMIT" default:"1000"`
	StatsLabels  []string `envconfig:"STATS_LABELS" default:"processed,dropped,delivered,deferred,bounce,open,click,spamreport,unsubscribe,group_unsubscribe,group_resubscribe"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverClickHouse, DriverMemory:
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	switch c.Ingest.Mode {
	case IngestModeDirect:
	case IngestModeQueue:
		if c.SQS.QueueURL == "" {
			return fmt.Errorf("SQS_QUEUE_URL is required when INGEST_MODE=%s", IngestModeQueue)
		}
	default:
		return fmt.Errorf("unsupported ingest mode: %s", c.Ingest.Mode)
	}

	if c.Service.MaxBodyBytes <= 0 {
		return fmt.Errorf("SERVICE_MAX_BODY_BYTES must be positive, got %d", c.Service.MaxBodyBytes)
	}

	if c.Query.MaxLimit <= 0 {
		return fmt.Errorf("QUERY_MAX_LIMIT must be positive, got %d", c.Query.MaxLimit)
	}

	labels := c.Query.StatsLabels[:0]
	for _, l := range c.Query.StatsLabels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	c.Query.StatsLabels = labels

	return nil
}
