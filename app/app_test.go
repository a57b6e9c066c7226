package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
)

const sampleConfig = `
telegram:
  token: file-token
  admin_id: 42
rate_limit:
  interval_ms: 250
  exclude_updates: [Callback]
game:
  roll_settle_ms: 1500
  board_image: " assets/board.png "
journal:
  memory_limit: 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("GAME_DICE_CLEANUP_MS", "500")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.EqualValues(t, 42, cfg.Telegram.AdminID)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{"callback"}, cfg.RateLimit.ExcludeUpdates)

	assert.Equal(t, time.Hour, cfg.Game.SessionTimeout())
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.RollSettle())
	assert.Equal(t, 500*time.Millisecond, cfg.Game.DiceCleanup())
	assert.Equal(t, "assets/board.png", cfg.Game.BoardImage)
	assert.Equal(t, defaultMarkerRadius, cfg.Game.MarkerRadius)

	assert.Equal(t, 5, cfg.Journal.MemoryLimit)
	assert.Equal(t, defaultHistoryLimit, cfg.Journal.HistoryLimit)
	assert.False(t, cfg.Database.Enabled())
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, coreconfig.ErrTokenRequired)
}

func TestNormalizeRejectsNegativeTimings(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Game.RollSettleMS = -1
	require.Error(t, Normalize(cfg))
	require.Error(t, Normalize(nil))
}

func TestTelegramRunOptions(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Telegram.AdminID = 7
	require.NoError(t, Normalize(cfg))

	a := New(cfg, nil)
	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		require.NotNil(t, r.Handler)
		endpoints[r.Endpoint] = true
	}
	for _, e := range []any{"/play", "/roll", "/onboarding", "/rules", "/history", "/start", "/sessions", "/kick", "/finish", tele.OnCallback} {
		assert.True(t, endpoints[e], "missing route %v", e)
	}

	names := make([]string, 0, len(opts.Middlewares))
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	assert.Contains(t, names, "chat_activity")
	assert.Same(t, a.registry, opts.Registry)
	assert.NotNil(t, opts.Dispatcher)
	assert.NotNil(t, a.Manager())

	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
}
