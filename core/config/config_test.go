package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  token: from-file
  run_mode: Polling
rate_limit:
  exclude_updates: [" Callback ", "", message]
logging:
  level: debug
`), 0o600))
	t.Setenv("TELEGRAM_ADMIN_ID", "99")
	t.Setenv("LOG_FORMAT", "kv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.EqualValues(t, 99, cfg.Telegram.AdminID)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateCallback, UpdateMessage}, cfg.RateLimit.ExcludeUpdates)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "kv", cfg.Logging.Format)
}

func TestNormalizeErrors(t *testing.T) {
	cases := map[string]func(*Config){
		"missing token":  func(c *Config) { c.Telegram.Token = " " },
		"bad run mode":   func(c *Config) { c.Telegram.RunMode = "push" },
		"webhook no url": func(c *Config) { c.Telegram.RunMode = RunModeWebhook },
		"webhook no port": func(c *Config) {
			c.Telegram.RunMode = RunModeWebhook
			c.Webhook = WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0"}
		},
		"negative poll":  func(c *Config) { c.Telegram.LongPollTimeoutSeconds = -1 },
		"negative rate":  func(c *Config) { c.RateLimit.IntervalMS = -5 },
		"unknown update": func(c *Config) { c.RateLimit.ExcludeUpdates = []string{"poll"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{Telegram: TelegramConfig{Token: "t"}}
			mutate(cfg)
			assert.Error(t, Normalize(cfg))
		})
	}
	assert.ErrorIs(t, Normalize(&Config{}), ErrTokenRequired)
	assert.Error(t, Normalize(nil))
}

func TestNormalizeWebhook(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "t", RunMode: " WEBHOOK "},
		Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443},
	}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeWebhook, cfg.Telegram.RunMode)
}

func TestRateLimitHelpers(t *testing.T) {
	rl := RateLimitConfig{IntervalMS: 300, ExcludeUpdates: []string{"callback", "Message"}}
	assert.Equal(t, 300*time.Millisecond, rl.Interval())
	assert.Equal(t, map[string]struct{}{"callback": {}, "message": {}}, rl.Excluded())
	assert.Zero(t, RateLimitConfig{}.Interval())
}
