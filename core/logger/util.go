package logger

import (
	"fmt"
	"strings"
	"time"

	"log/slog"
)

// Took returns rounded duration since start for compact logging.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds duration to the nearest millisecond for consistent logging.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// ListAttr logs at most limit values under key, noting how many were left out.
func ListAttr(key string, values []string, limit int) slog.Attr {
	limit = max(limit, 0)
	if len(values) <= limit {
		return slog.String(key, strings.Join(values, ", "))
	}
	return slog.String(key, fmt.Sprintf("%s (+%d)", strings.Join(values[:limit], ", "), len(values)-limit))
}
