package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/recipe-api/internal/config"
	"github.com/baharkarakas/recipe-api/internal/repository"
	"github.com/baharkarakas/recipe-api/internal/repository/postgres"
	"github.com/baharkarakas/recipe-api/internal/repository/sqlite"
)

// Open returns the store selected by cfg.DatabaseURL. A sqlite:// URL opens
// (and creates) a local file; anything else is treated as a Postgres DSN,
// optionally waited for and migrated according to cfg.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (repository.Store, error) {
	if cfg.UsesSQLite() {
		log.Info("using sqlite store", "path", cfg.SQLitePath())
		return sqlite.Open(cfg.SQLitePath(), log)
	}

	pool, err := NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.WaitForDB {
		if err := WaitForDB(ctx, pool.Ping, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.Migrate {
		if err := RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return postgres.NewStore(pool), nil
}

// OpenPool connects to Postgres without touching the schema; used by the
// manage commands.
func OpenPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.UsesSQLite() {
		return nil, fmt.Errorf("DATABASE_URL %q is not a Postgres DSN", cfg.DatabaseURL)
	}
	return NewPool(ctx, cfg.DatabaseURL)
}
