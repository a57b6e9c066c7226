package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/cashflowbot/core/logger"
)

const (
	connectTimeout = 5 * time.Second
	pingInterval   = 2 * time.Second
)

func (c Config) logAttrs(extra ...slog.Attr) []slog.Attr {
	return append([]slog.Attr{
		slog.String("host", c.Host),
		slog.String("port", c.Port),
		slog.String("db", c.Name),
	}, extra...)
}

// Connect opens the journal database and sizes its pool.
func Connect(cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(logger.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	took := slog.Duration("duration", logger.Took(start))
	if err != nil {
		logger.Error(ctx, "db", "db.connect",
			cfg.logAttrs(slog.String("status", "fail"), took, slog.String("err", err.Error()))...)
		return nil, fmt.Errorf("db connect %s: %w", cfg.Host, err)
	}

	if n := cfg.MaxConnections; n > 0 {
		db.SetMaxOpenConns(n)
		db.SetMaxIdleConns(n)
	}
	logger.Info(ctx, "db", "db.connect",
		cfg.logAttrs(slog.String("status", "ok"), slog.Int("pool_open", cfg.MaxConnections), took)...)
	return db, nil
}

// WaitForPostgres keeps pinging dsn until it answers. It gives up when ctx
// ends or timeout elapses and returns the last ping error.
func WaitForPostgres(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ping := func() error {
		db, err := sqlx.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.PingContext(ctx)
	}

	for attempt := 1; ; attempt++ {
		err := ping()
		if err == nil {
			return nil
		}
		logger.Debug(ctx, "db", "db.wait", slog.Int("attempt", attempt), slog.String("err", err.Error()))
		select {
		case <-ctx.Done():
			return fmt.Errorf("database not reachable after %d attempts: %w", attempt, err)
		case <-time.After(pingInterval):
		}
	}
}
