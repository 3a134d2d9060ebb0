// Command manage runs administrative tasks against the configured database.
//
// Usage:
//
//	manage migrate
//	manage wait_for_db
//	manage createsuperuser -email admin@example.com -password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/baharkarakas/recipe-api/internal/config"
	"github.com/baharkarakas/recipe-api/internal/db"
	"github.com/baharkarakas/recipe-api/internal/logger"
	"github.com/baharkarakas/recipe-api/internal/repository/sqlite"
	"github.com/baharkarakas/recipe-api/internal/services"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <migrate|wait_for_db|createsuperuser> [flags]\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "migrate":
		err = migrate(ctx, cfg, log)
	case "wait_for_db":
		err = waitForDB(ctx, cfg, log)
	case "createsuperuser":
		err = createSuperuser(ctx, cfg, log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error(os.Args[1], "err", err)
		os.Exit(1)
	}
}

// migrate applies the pending migrations. A SQLite store creates its schema
// when it is opened.
func migrate(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.UsesSQLite() {
		store, err := sqlite.Open(cfg.SQLitePath(), log)
		if err != nil {
			return err
		}
		store.Close()
		log.Info("sqlite schema is up to date", "path", cfg.SQLitePath())
		return nil
	}
	pool, err := db.OpenPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.RunMigrations(ctx, pool, log)
}

func waitForDB(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.UsesSQLite() {
		store, err := sqlite.Open(cfg.SQLitePath(), log)
		if err != nil {
			return err
		}
		defer store.Close()
		return db.WaitForDB(ctx, store.Ping, log)
	}
	pool, err := db.OpenPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.WaitForDB(ctx, pool.Ping, log)
}

func createSuperuser(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	email := fs.String("email", "", "email address of the new superuser")
	password := fs.String("password", "", "password of the new superuser")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		fs.Usage()
		return fmt.Errorf("-email and -password are required")
	}

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	users := services.NewUserService(store, nil, nil, log)
	u, err := users.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		return err
	}
	log.Info("superuser created", "id", u.ID, "email", u.Email)
	return nil
}
