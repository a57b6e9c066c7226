package telegram

import (
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
	"github.com/m3rciful/cashflowbot/core/telegram/middleware"
)

// DefaultMiddlewares returns the chain installed in front of every route:
// recover, logger, chat_activity, rate_limit and metrics. chat_activity is
// present only when touch is set; rate_limit only when cfg enables it.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc, touch func(chatID int64)) []Middleware {
	chain := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
	}
	if touch != nil {
		chain = append(chain, Middleware{Name: "chat_activity", Use: middleware.ChatActivity(touch)})
	}
	if cfg != nil && cfg.RateLimit.Interval() > 0 {
		chain = append(chain, Middleware{Name: "rate_limit", Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  cfg.RateLimit.Interval(),
			Exclude:   cfg.RateLimit.Excluded(),
			OnLimited: onLimited,
		})})
	}
	return append(chain, Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware})
}
