package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awhitwam/whit-lend-sub010/internal/application/usecase"
	"github.com/awhitwam/whit-lend-sub010/internal/infrastructure/config"
	"github.com/awhitwam/whit-lend-sub010/internal/infrastructure/kafka"
	pgRepo "github.com/awhitwam/whit-lend-sub010/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/awhitwam/whit-lend-sub010/internal/presentation/grpc"
	"github.com/awhitwam/whit-lend-sub010/internal/presentation/rest"
	"github.com/awhitwam/whit-lend-sub010/pkg/auth"
	pkgkafka "github.com/awhitwam/whit-lend-sub010/pkg/kafka"
	"github.com/awhitwam/whit-lend-sub010/pkg/observability"
	pkgpostgres "github.com/awhitwam/whit-lend-sub010/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(logger)

	logger.Info("starting ledger-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(ctx) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	// Initialize metrics (Prometheus exposition handler mounted below).
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Warn("failed to initialize metrics", "error", err)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(pgCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Wire infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepo(pool)
	productRepo := pgRepo.NewProductRepo(pool)
	txnRepo := pgRepo.NewTransactionRepo(pool)
	scheduleRepo := pgRepo.NewScheduleRepo(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.Topic, logger)

	// Wire use cases. Transaction writes share the regeneration use case so
	// the write and the rebuild happen under one loan lock.
	regenerateUC := usecase.NewRegenerateScheduleUseCase(loanRepo, productRepo, txnRepo, scheduleRepo, publisher)
	createProductUC := usecase.NewCreateProductUseCase(productRepo)
	originateUC := usecase.NewOriginateLoanUseCase(loanRepo, productRepo, scheduleRepo, publisher)
	recordTxnUC := usecase.NewRecordTransactionUseCase(loanRepo, txnRepo, publisher, regenerateUC)
	deleteTxnUC := usecase.NewDeleteTransactionUseCase(txnRepo, regenerateUC)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo)
	getScheduleUC := usecase.NewGetScheduleUseCase(loanRepo, scheduleRepo)

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtCfg := auth.JWTConfig{
		Issuer: cfg.Auth.Issuer,
	}
	switch {
	case cfg.Auth.JWTPublicKeyFile != "":
		keyData, loadErr := auth.LoadKeyFromFile(cfg.Auth.JWTPublicKeyFile)
		if loadErr != nil {
			logger.Error("failed to load JWT public key file", "error", loadErr)
			os.Exit(1)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Auth.JWTSecret
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	handler := grpcPresentation.NewLedgerServiceHandler(
		createProductUC,
		originateUC,
		regenerateUC,
		recordTxnUC,
		deleteTxnUC,
		getLoanUC,
		getScheduleUC,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(pool, logger)
	healthHandler.RegisterRoutes(mux)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("ledger-service stopped")
}
