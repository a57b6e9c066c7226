package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// staleAfter is how many intervals a quiet user is remembered.
const staleAfter = 100

// RateLimitOptions configure RateLimitMiddleware. Exclude holds update kinds
// ("callback", "message", "inline_query") that are never limited.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// userLimiter admits one update per user per interval.
type userLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[int64]time.Time
}

func (l *userLimiter) allow(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if at, ok := l.last[userID]; ok && now.Sub(at) < l.interval {
		return false
	}
	for id, at := range l.last {
		if now.Sub(at) > staleAfter*l.interval {
			delete(l.last, id)
		}
	}
	l.last[userID] = now
	return true
}

// RateLimitMiddleware drops updates a user sends faster than opts.Interval.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	lim := &userLimiter{interval: opts.Interval, last: map[int64]time.Time{}}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := updateKind(c.Update())
			if _, skip := opts.Exclude[kind]; skip || lim.allow(user.ID, time.Now()) {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "rate_limit",
				slog.String("status", "rate_limited"),
				slog.String("kind", kind),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
