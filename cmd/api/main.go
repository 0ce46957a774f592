// Command api runs the fieldops HTTP server: it wires the SQLite store,
// Redis, object storage, the bulk worker pool, and all HTTP routes, then
// serves until interrupted.
//
// @title        FieldOps API
// @version      1.0
// @description  Field-service backend: clients, assets, work orders, and bulk import/export.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/eagl/fieldops-api/internal/api"
	"github.com/eagl/fieldops-api/internal/core/service"
	"github.com/eagl/fieldops-api/internal/infrastructure/config"
	"github.com/eagl/fieldops-api/internal/infrastructure/db/redis"
	"github.com/eagl/fieldops-api/internal/infrastructure/db/sqlite"
	"github.com/eagl/fieldops-api/internal/infrastructure/queue"
	"github.com/eagl/fieldops-api/internal/infrastructure/storage"
	"github.com/eagl/fieldops-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- SQLite (schema is initialised inside Open) ---
	db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.DB.Path})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// --- Object storage ---
	var store storage.Store
	if cfg.Storage.Local || cfg.Storage.Bucket == "" {
		store, err = storage.NewLocalStore(cfg.Storage.LocalDir)
	} else {
		store, err = storage.NewGCSStore(ctx, cfg.Storage.Bucket)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise object storage")
	}

	// --- Repositories ---
	userRepo := sqlite.NewUserRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	assetRepo := sqlite.NewAssetRepository(db)
	workOrderRepo := sqlite.NewWorkOrderRepository(db)
	bulkRepo := sqlite.NewBulkRepository(db)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Hour)
	userService := service.NewUserService(userRepo, log)
	clientService := service.NewClientService(clientRepo, log)
	assetService := service.NewAssetService(assetRepo, clientRepo, log)
	workOrderService := service.NewWorkOrderService(workOrderRepo, clientRepo, assetRepo, log)
	bulkService := service.NewBulkService(
		bulkRepo,
		store,
		redis.NewFileDedup(rdb),
		clientRepo,
		assetRepo,
		userRepo,
		workOrderRepo,
		int64(cfg.Bulk.MaxFileMB)<<20,
		cfg.Bulk.ExportSyncLimit,
		log,
	)

	// --- Worker pool ---
	dispatcher := queue.NewDispatcher(cfg.Bulk.Workers, bulkService, log)
	dispatcher.Start(ctx)

	// Jobs interrupted by the previous shutdown: fail stale running ones,
	// put queued ones back on the wire.
	pendingImports, pendingExports, err := bulkService.RecoverPending(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to recover pending bulk jobs")
	}
	for _, job := range pendingImports {
		dispatcher.EnqueueImport(job.ID, job.Entity)
	}
	for _, job := range pendingExports {
		dispatcher.EnqueueExport(job.ID, job.Entity)
	}
	if n := len(pendingImports) + len(pendingExports); n > 0 {
		log.Info().Int("jobs", n).Msg("re-enqueued bulk jobs pending from previous run")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Users:      userService,
		Clients:    clientService,
		Assets:     assetService,
		WorkOrders: workOrderService,
		Bulk:       bulkService,
		Dispatcher: dispatcher,
		DB:         db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
