package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"importcalc/internal/config"
	"importcalc/internal/courier"
	"importcalc/internal/db"
	"importcalc/internal/observability"
	"importcalc/internal/quote"
	"importcalc/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.Fatal("failed to load courier profiles", zap.String("source", cfg.CourierSource), zap.Error(err))
	}

	calc, err := quote.NewCalculator(catalog)
	if err != nil {
		logger.Fatal("failed to build calculator", zap.Error(err))
	}

	r := server.NewWithOptions(calc, server.Options{
		DefaultFXRate: cfg.DefaultFXRate,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("api listening",
		zap.String("addr", srv.Addr),
		zap.String("courier_source", cfg.CourierSource),
		zap.Strings("couriers", catalog.IDs()),
		zap.Float64("default_fx_rate", cfg.DefaultFXRate),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func loadCatalog(cfg config.Config) (*courier.Catalog, error) {
	switch cfg.CourierSource {
	case config.SourceFile:
		return courier.LoadFile(cfg.ProfilesFile)
	case config.SourcePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		// Profiles are read once; requests never touch the database.
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		return db.LoadCourierProfiles(ctx, pool)
	default:
		return courier.Builtin()
	}
}
