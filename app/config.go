package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
	coredatabase "github.com/m3rciful/cashflowbot/core/database"

	"github.com/joho/godotenv"
)

const (
	defaultSessionTimeoutMinutes = 60
	defaultRollSettleMS          = 3000
	defaultDiceCleanupMS         = 2000
	defaultMarkerRadius          = 30
	defaultJournalMemoryLimit    = 50
	defaultHistoryLimit          = 10
)

// GameConfig holds the timings and assets of a chat game.
type GameConfig struct {
	SessionTimeoutMinutes int `yaml:"session_timeout_minutes" envconfig:"GAME_SESSION_TIMEOUT_MINUTES"`
	// RollSettleMS is how long the dice animation runs before the result is applied.
	RollSettleMS  int `yaml:"roll_settle_ms" envconfig:"GAME_ROLL_SETTLE_MS"`
	DiceCleanupMS int `yaml:"dice_cleanup_ms" envconfig:"GAME_DICE_CLEANUP_MS"`

	BoardImage     string `yaml:"board_image" envconfig:"GAME_BOARD_IMAGE"`
	ProfessionsDir string `yaml:"professions_dir" envconfig:"GAME_PROFESSIONS_DIR"`
	MarkerRadius   int    `yaml:"marker_radius" envconfig:"GAME_MARKER_RADIUS"`
}

// JournalConfig selects where game events are kept when no database is configured.
type JournalConfig struct {
	MemoryLimit  int `yaml:"memory_limit" envconfig:"JOURNAL_MEMORY_LIMIT"`
	HistoryLimit int `yaml:"history_limit" envconfig:"JOURNAL_HISTORY_LIMIT"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Game     GameConfig          `yaml:"game"`
	Journal  JournalConfig       `yaml:"journal"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// SessionTimeout returns the idle time after which a chat session ends.
func (g GameConfig) SessionTimeout() time.Duration {
	return time.Duration(g.SessionTimeoutMinutes) * time.Minute
}

// RollSettle returns the dice animation delay.
func (g GameConfig) RollSettle() time.Duration {
	return time.Duration(g.RollSettleMS) * time.Millisecond
}

// DiceCleanup returns the delay before a dice message is deleted.
func (g GameConfig) DiceCleanup() time.Duration {
	return time.Duration(g.DiceCleanupMS) * time.Millisecond
}

// Load reads path, overlays the environment (after an optional .env) and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the core section and fills game defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	g := &cfg.Game
	if g.SessionTimeoutMinutes < 0 || g.RollSettleMS < 0 || g.DiceCleanupMS < 0 || g.MarkerRadius < 0 {
		return fmt.Errorf("game timings and marker radius must be >= 0")
	}
	if g.SessionTimeoutMinutes == 0 {
		g.SessionTimeoutMinutes = defaultSessionTimeoutMinutes
	}
	if g.RollSettleMS == 0 {
		g.RollSettleMS = defaultRollSettleMS
	}
	if g.DiceCleanupMS == 0 {
		g.DiceCleanupMS = defaultDiceCleanupMS
	}
	if g.MarkerRadius == 0 {
		g.MarkerRadius = defaultMarkerRadius
	}
	g.BoardImage = strings.TrimSpace(g.BoardImage)
	g.ProfessionsDir = strings.TrimSpace(g.ProfessionsDir)

	if cfg.Journal.MemoryLimit <= 0 {
		cfg.Journal.MemoryLimit = defaultJournalMemoryLimit
	}
	if cfg.Journal.HistoryLimit <= 0 {
		cfg.Journal.HistoryLimit = defaultHistoryLimit
	}
	return nil
}
