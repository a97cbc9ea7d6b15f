package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/consumer"
	"github.com/Wendyzhou/eventkit/internal/logger"
	"github.com/Wendyzhou/eventkit/internal/metrics"
	"github.com/Wendyzhou/eventkit/internal/queue/sqs"
	"github.com/Wendyzhou/eventkit/internal/repository/backend"
)

func main() {
	// Load configuration
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

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("store_driver", cfg.Store.Driver))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

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

	// Initialize schema (create tables if not exist)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}
	log.Info("Database schema initialized")

	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	c := consumer.NewConsumer(cfg, sqsClient, repo, log)

	// Health and metrics endpoints
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	healthServer := &http.Server{
		Addr:    ":" + cfg.Consumer.HealthCheckPort,
		Handler: mux,
	}
	go func() {
		log.Info("Health check server starting", zap.String("address", healthServer.Addr))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		log.Info("Consumer starting")
		done <- c.Start(consumerCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Shutting down consumer gracefully")
		cancel()
		if err := <-done; err != nil {
			log.Error("Consumer stopped with error", zap.Error(err))
		}
	case err := <-done:
		if err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}

	if err := healthServer.Shutdown(context.Background()); err != nil {
		log.Error("Failed to shut down health server", zap.Error(err))
	}
}
