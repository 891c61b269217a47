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

	"assetdesk/internal/caching"
	"assetdesk/internal/config"
	_ "assetdesk/internal/docs"
	"assetdesk/internal/export"
	"assetdesk/internal/handlers"
	"assetdesk/internal/jobs"
	"assetdesk/internal/jobs/background"
	"assetdesk/internal/logger"
	"assetdesk/internal/metrics"
	"assetdesk/internal/middleware"
	"assetdesk/internal/services"
	"assetdesk/internal/storage"
	"assetdesk/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const (
	cachePurgeEvery = time.Hour
	shutdownTimeout = 10 * time.Second
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Init(cfg.Server.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	health := handlers.NewHealthHandlers(version)
	backend := services.Backend{CacheTTL: cfg.Redis.CacheTTL.Duration}

	// Database connection
	if cfg.Database.URL != "" {
		pool, err := database.NewPool(ctx, cfg.Database.URL, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.ClosePool(log)
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		backend.DB = pool
		health.AddCheck("database", true, pool.Ping)
	} else {
		log.Warn("DATABASE_URL not set, serving seeded in-memory data")
	}

	// Redis query cache
	var cache caching.CacheService
	if cfg.Redis.Addr != "" {
		cache = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, queries will bypass the cache until it recovers", zap.Error(err))
		}
		backend.Cache = cache
		health.AddCheck("redis", false, cache.Ping)
	}

	// MinIO export storage
	var store *storage.ExportStore
	if cfg.Storage.Endpoint != "" {
		objects, err := storage.NewMinioStore(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
		if err != nil {
			return fmt.Errorf("failed to initialize MinIO client: %w", err)
		}
		store = storage.NewExportStore(objects, cfg.Storage.Bucket, log)
		if err := store.Init(ctx); err != nil {
			log.Warn("Export bucket not ready", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		health.AddCheck("object_storage", false, store.Init)
	}

	catalog := services.NewCatalog(backend, log, m)
	exports := services.NewExportService(catalog, store, log)

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{
		Secret:   cfg.Auth.JWTSecret,
		JWKSURL:  cfg.Auth.JWKSURL,
		Disabled: cfg.Auth.Disabled,
	}, log)
	if err != nil {
		return err
	}
	defer auth.Close()

	// Background jobs
	scheduler, err := background.NewJobScheduler(log, m)
	if err != nil {
		return err
	}
	opts := jobs.Options{Cache: cache, PurgeEvery: cachePurgeEvery}
	if store != nil {
		opts.Exports = exports
		opts.SnapshotFormat = export.FormatCSV
		opts.SnapshotEvery = cfg.Jobs.SnapshotInterval.Duration
	}
	if _, err := jobs.Register(scheduler, opts, log); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}()

	if cache != nil {
		go func() {
			err := caching.ListenInvalidations(ctx, cache, log, func(kind string) {
				log.Debug("Cached queries invalidated", zap.String("kind", kind))
			})
			if err != nil && ctx.Err() == nil {
				log.Error("Invalidation listener stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.NewAuditMiddleware(log, m).AuditRequest())

	e.GET("/health", health.HealthCheck)
	e.GET("/health/ready", health.ReadinessCheck)
	e.GET("/health/live", health.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	versions := middleware.NewVersionMiddleware()
	e.GET("/versions", versions.Versions)
	v1 := versions.VersionRoute(e, versions.GetCurrentVersion(), auth.Middleware())
	handlers.RegisterCatalogRoutes(v1, catalog, exports, log)
	v1.GET("/jobs", func(c echo.Context) error {
		return c.JSON(http.StatusOK, scheduler.GetJobStatus())
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", addr), zap.String("version", version))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
