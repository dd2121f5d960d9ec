package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting recipebox api", "env", cfg.Env, "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		// the API stays up without rate limiting
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	images, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	handler := router.SetupRouter(router.Dependencies{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Images: images,
	})

	return server.New(cfg, handler, logger).Run(ctx)
}
