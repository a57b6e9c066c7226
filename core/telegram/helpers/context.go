// Package helpers carries the per-update logging context on tele.Context.
package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/cashflowbot/core/logger"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
)

const storeKey = "logger_ctx"

// StoreContext saves ctx on c. Nil values are ignored.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(storeKey, ctx)
	}
}

// ContextFrom returns the context saved by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(storeKey).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext returns the update context, creating and saving it on first use.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	ctx := NewUpdateContext(c)
	StoreContext(c, ctx)
	return ctx
}

// NewUpdateContext derives a fresh logging context from the update. The rid
// set by the logger middleware is reused when present. Button presses also
// name their handler as "callback.<action>".
func NewUpdateContext(c tele.Context) context.Context {
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	updateID := c.Update().ID

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
	}
	ctx := logger.WithLogger(logger.WithRID(context.Background(), rid), logger.Component("tg"))
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)

	if key, err := callbacks.KeyFrom(c.Callback()); err == nil {
		ctx = logger.WithHandler(ctx, "callback."+key.Action)
	}
	return ctx
}

// WithHandler tags the stored context with handler and saves it back.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler != "" {
		ctx = logger.WithHandler(ctx, handler)
		StoreContext(c, ctx)
	}
	return ctx
}
