package logger

import "strings"

// Level names as they appear in the level field.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelAliases = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := levelAliases[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// enum restricts a string field to a closed set of values. Unknown values
// are kept lowercased when loose, dropped otherwise.
type enum struct {
	values []string
	loose  bool
}

func (e enum) normalize(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", false
	}
	for _, allowed := range e.values {
		if v == allowed {
			return v, true
		}
	}
	return v, e.loose
}

var enumFields = map[string]enum{
	"status":  {values: []string{"ok", "fail", "skip", "retry", "rate_limited", "cancelled"}, loose: true},
	"outcome": {values: []string{"ok", "fail", "cancelled", "rate_limited"}},
	"cache":   {values: []string{"hit", "miss"}},
	"kind":    {values: []string{"board", "card"}, loose: true},
}

var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "chat_type",
	"handler", "op", "cb_key", "action", "outcome", "duration_ms",
	"game_id", "player_id", "players", "order", "position", "dice", "attempt",
	"kind", "cache", "profession",
	"mode", "listen", "public_url", "db", "host", "port", "journal",
	"err", "err_code", "cause", "attempts", "backoff_ms",
	"handlers", "sessions", "commands",
}
