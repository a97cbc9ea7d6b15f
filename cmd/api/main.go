package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/docs"
	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/handler"
	"github.com/Wendyzhou/eventkit/internal/ingest"
	"github.com/Wendyzhou/eventkit/internal/logger"
	"github.com/Wendyzhou/eventkit/internal/mapper"
	"github.com/Wendyzhou/eventkit/internal/metrics"
	"github.com/Wendyzhou/eventkit/internal/query"
	"github.com/Wendyzhou/eventkit/internal/queue/sqs"
	"github.com/Wendyzhou/eventkit/internal/repository/backend"
	"github.com/Wendyzhou/eventkit/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title eventkit API
// @version 1.0
// @description API for ingesting and searching email delivery notifications
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("ingest_mode", cfg.Ingest.Mode))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	repo, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open event store", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close event store", zap.Error(err))
		}
	}()

	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var writer ingest.Writer
	switch cfg.Ingest.Mode {
	case config.IngestModeQueue:
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		writer = ingest.NewQueueWriter(sqsClient)
	default:
		writer = ingest.NewStoreWriter(repo, log)
	}

	pipeline := ingest.NewPipeline(mapper.New(), writer, log)
	translator := query.NewTranslator(repo, cfg.Query, log)
	eventService := service.NewEventService(pipeline, translator, repo, log)

	h := handler.NewHandler(eventService, cfg.Service.MaxBodyBytes, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler: h,
	}

	go func() {
		log.Info("API server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API server gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}
}
