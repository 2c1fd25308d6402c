package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hearthside/cartfill/internal/artifact"
	"github.com/hearthside/cartfill/internal/config"
	"github.com/hearthside/cartfill/internal/dataset"
	dbRedis "github.com/hearthside/cartfill/internal/db/redis"
	"github.com/hearthside/cartfill/internal/embedding"
	"github.com/hearthside/cartfill/internal/engine"
	"github.com/hearthside/cartfill/internal/insights"
	logpkg "github.com/hearthside/cartfill/internal/logger"
	"github.com/hearthside/cartfill/internal/metrics"
	"github.com/hearthside/cartfill/internal/repository/reccache"
	transport "github.com/hearthside/cartfill/internal/transport/http"
	"github.com/hearthside/cartfill/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cartfill API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Data.Dir),
	)

	metrics.RegisterEngineMetrics()

	// Stores and trainer
	artifacts := artifact.NewStore(cfg.Data.Dir)
	data := dataset.NewStore(cfg.Data.Dir)
	trainer := &embedding.SGDTrainer{
		Dim:    cfg.Embedding.Dim,
		Epochs: cfg.Embedding.Epochs,
		Seed:   cfg.Embedding.Seed,
	}

	eng := engine.New(artifacts, data, trainer, cfg, logger)

	// Optional Redis-backed result cache. No addrs means the engine serves alone.
	var recommender transport.Recommender = eng
	if len(cfg.Cache.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(context.Background(), time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to result cache", zap.Strings("addrs", cfg.Cache.Addrs))

		recommender = reccache.New(
			eng,
			store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.RecCacheTotal,
			logger,
		)
	}

	insightsSvc := insights.New(&insights.Config{
		APIKey:  cfg.Insights.APIKey,
		BaseURL: cfg.Insights.BaseURL,
		Model:   cfg.Insights.Model,
		Logger:  logger,
	})

	server := transport.NewServer(recommender, eng, insightsSvc, logger)

	// Warm up artifacts before accepting traffic.
	if err := eng.Bootstrap(context.Background()); err != nil {
		logger.Fatal("Bootstrap failed", zap.Error(err))
	}
	logger.Info("Artifacts ready", zap.Int64("regenerations", eng.Regenerations()))

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
