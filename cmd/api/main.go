package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/recipe-api/internal/api"
	"github.com/baharkarakas/recipe-api/internal/auth"
	"github.com/baharkarakas/recipe-api/internal/config"
	"github.com/baharkarakas/recipe-api/internal/db"
	"github.com/baharkarakas/recipe-api/internal/logger"
	"github.com/baharkarakas/recipe-api/internal/services"
	"github.com/baharkarakas/recipe-api/internal/worker"
)

const (
	workerQueue     = 1024
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Error("db open", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	wp := worker.NewPool(cfg.Workers, workerQueue, log)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		Log:       log,
		DB:        store,
		UserSvc:   services.NewUserService(store, tm, wp, log),
		RecipeSvc: services.NewRecipeService(store, log),
		TagSvc:    services.NewTagService(store, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
