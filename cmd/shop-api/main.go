package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/openshop/internal/config"
	"github.com/tuanvumaihuynh/openshop/internal/http"
	"github.com/tuanvumaihuynh/openshop/internal/log"
	"github.com/tuanvumaihuynh/openshop/internal/repository"
	"github.com/tuanvumaihuynh/openshop/internal/service"
	"github.com/tuanvumaihuynh/openshop/internal/storage/db"
	"github.com/tuanvumaihuynh/openshop/internal/telemetry"
	"github.com/tuanvumaihuynh/openshop/pkg/cmdutil"
	"github.com/tuanvumaihuynh/openshop/pkg/validator"
)

// shop-api serves the HTTP API only; outbox messages are published by a
// separately deployed shop-relay.
func main() {
	if err := run(); err != nil {
		fmt.Printf("error running api application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	validator, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productService := service.NewProductService(
		dbClient,
		repository.NewProductRepository(dbClient),
		repository.NewOutboxMsgRepository(dbClient),
	)

	svc := http.New(cfg.HTTP, logger, productService, validator, dbClient)
	cleanup, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running http service: %w", err)
	}

	<-cmdutil.InterruptChan()

	logger.InfoContext(ctx, "http service is shutting down")
	if err := cleanup(ctx); err != nil {
		logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
	}
	logger.InfoContext(ctx, "http service is stopped")

	return nil
}
