package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/cashflowbot/core/logger"
)

const (
	insertEntry = `INSERT INTO game_events (game_id, chat_id, event, player_id, detail, created_at)
VALUES (:game_id, :chat_id, :event, :player_id, :detail, :created_at)`

	selectRecent = `SELECT game_id, chat_id, event, player_id, detail, created_at
FROM game_events WHERE chat_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
)

// SQL stores entries in the game_events table.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open database handle.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// Record inserts e.
func (s *SQL) Record(ctx context.Context, e Entry) error {
	e = stamp(e)
	start := time.Now()
	if _, err := s.db.NamedExecContext(ctx, insertEntry, e); err != nil {
		logger.Warn(ctx, "journal", "journal.insert",
			slog.String("status", "fail"),
			slog.String("op", e.Event),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("journal: insert %s: %w", e.Event, err)
	}
	logger.Debug(ctx, "journal", "journal.insert",
		slog.String("status", "ok"),
		slog.String("op", e.Event),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// Recent returns up to limit entries of chatID, newest first.
func (s *SQL) Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Entry
	if err := s.db.SelectContext(ctx, &out, selectRecent, chatID, limit); err != nil {
		return nil, fmt.Errorf("journal: select recent: %w", err)
	}
	return out, nil
}
