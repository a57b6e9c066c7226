package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecentNewestFirst(t *testing.T) {
	j := NewMemory(0)
	ctx := context.Background()
	id := uuid.New()
	for _, ev := range []string{EventSessionOpened, EventPlayerJoined, EventGameStarted} {
		require.NoError(t, j.Record(ctx, Entry{GameID: id, ChatID: 7, Event: ev}))
	}
	require.NoError(t, j.Record(ctx, Entry{GameID: id, ChatID: 8, Event: EventSessionOpened}))

	got, err := j.Recent(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventGameStarted, got[0].Event)
	assert.Equal(t, EventPlayerJoined, got[1].Event)
	assert.False(t, got[0].At.IsZero())

	all, err := j.Recent(ctx, 7, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := j.Recent(ctx, 9, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryDropsOldest(t *testing.T) {
	j := NewMemory(2)
	ctx := context.Background()
	for i, ev := range []string{EventDiceRolled, EventTurnEnded, EventConflictRoll} {
		require.NoError(t, j.Record(ctx, Entry{ChatID: 1, Event: ev, PlayerID: int64(i)}))
	}
	got, err := j.Recent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventConflictRoll, got[0].Event)
	assert.Equal(t, EventTurnEnded, got[1].Event)
}

func TestStampKeepsExplicitTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, at, stamp(Entry{At: at}).At)
	assert.WithinDuration(t, time.Now(), stamp(Entry{}).At, time.Minute)
}

// TestSQLRoundTrip runs against a migrated database named by JOURNAL_TEST_DSN.
func TestSQLRoundTrip(t *testing.T) {
	dsn := os.Getenv("JOURNAL_TEST_DSN")
	if dsn == "" {
		t.Skip("JOURNAL_TEST_DSN not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	chat := time.Now().UnixNano()
	j := NewSQL(db)
	id := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, j.Record(ctx, Entry{GameID: id, ChatID: chat, Event: EventSessionOpened, At: base}))
	require.NoError(t, j.Record(ctx, Entry{GameID: id, ChatID: chat, Event: EventPlayerJoined, PlayerID: 5, Detail: "bob", At: base.Add(time.Second)}))

	got, err := j.Recent(ctx, chat, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventPlayerJoined, got[0].Event)
	assert.Equal(t, "bob", got[0].Detail)
	assert.Equal(t, id, got[1].GameID)

	_, err = db.ExecContext(ctx, `DELETE FROM game_events WHERE chat_id = $1`, chat)
	require.NoError(t, err)
}
