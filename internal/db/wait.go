package db

import (
	"context"
	"log/slog"
	"time"
)

// WaitInterval is the pause between two unsuccessful availability checks.
const WaitInterval = time.Second

// WaitForDB blocks until ping succeeds, retrying every WaitInterval. It
// only gives up when ctx is done.
func WaitForDB(ctx context.Context, ping func(context.Context) error, log *slog.Logger) error {
	return waitForDB(ctx, ping, WaitInterval, log)
}

func waitForDB(ctx context.Context, ping func(context.Context) error, interval time.Duration, log *slog.Logger) error {
	log.Info("waiting for database...")
	for {
		err := ping(ctx)
		if err == nil {
			log.Info("database available")
			return nil
		}
		log.Info("database unavailable, waiting", "interval", interval, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
