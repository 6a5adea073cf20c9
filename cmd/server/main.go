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

	"go.uber.org/zap"

	"github.com/Simplici0/interior-estimator/internal/cache"
	"github.com/Simplici0/interior-estimator/internal/catalog"
	"github.com/Simplici0/interior-estimator/internal/config"
	"github.com/Simplici0/interior-estimator/internal/db"
	"github.com/Simplici0/interior-estimator/internal/logging"
	"github.com/Simplici0/interior-estimator/internal/metrics"
	"github.com/Simplici0/interior-estimator/internal/migrations"
	"github.com/Simplici0/interior-estimator/internal/seed"
	"github.com/Simplici0/interior-estimator/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", zap.Error(err))
		return err
	}

	m := metrics.New()
	m.CatalogItems.Set(float64(cat.Len()))

	var estimates estimateCache
	if cfg.CacheEnabled() {
		redisCache, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		}, logger)
		if err != nil {
			logger.Warn("estimate cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			estimates = redisCache
		}
	}

	srv := newServer(cat, logger, m, estimates)

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadCatalog reads the catalog once at startup, from CATALOG_FILE when set
// and from SQLite otherwise. In development the schema is migrated and the
// default catalog seeded first.
func loadCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		cat, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded from file",
			zap.String("path", cfg.CatalogFile),
			zap.Int("items", cat.Len()),
			zap.String("fingerprint", cat.Fingerprint()),
		)
		return cat, nil
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database, logger); err != nil {
			return nil, err
		}

		def, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		stats, err := seed.Run(ctx, database, def)
		if err != nil {
			return nil, err
		}
		logger.Info("default catalog seeded", zap.Int("inserts", stats.Inserts), zap.Int("skipped", stats.Skipped))
	}

	return store.New(database, logger).LoadCatalog(ctx)
}
