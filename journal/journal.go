// Package journal keeps an append-only audit trail of game events.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event names recorded by the bot.
const (
	EventSessionOpened = "session.opened"
	EventSessionClosed = "session.closed"
	EventPlayerJoined  = "player.joined"
	EventPlayerKicked  = "player.kicked"
	EventGameStarted   = "game.started"
	EventDiceRolled    = "dice.rolled"
	EventTurnEnded     = "turn.ended"
	EventConflictRoll  = "conflict.rolled"
)

// Entry is one journal row.
type Entry struct {
	GameID   uuid.UUID `db:"game_id"`
	ChatID   int64     `db:"chat_id"`
	Event    string    `db:"event"`
	PlayerID int64     `db:"player_id"`
	Detail   string    `db:"detail"`
	At       time.Time `db:"created_at"`
}

// Journal stores and lists entries.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error)
}

func stamp(e Entry) Entry {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return e
}
