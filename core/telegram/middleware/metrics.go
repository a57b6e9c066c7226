package middleware

import (
	"context"
	"sync/atomic"

	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Counters tallies what the bot sent while handling one update.
type Counters struct {
	messages atomic.Int32
	keyboard atomic.Bool
	answered atomic.Bool
}

type countersKey struct{}

// WithCounters returns ctx carrying fresh counters.
func WithCounters(ctx context.Context) (context.Context, *Counters) {
	c := &Counters{}
	return context.WithValue(ctx, countersKey{}, c), c
}

// CountersFrom returns the counters of the update handled under ctx, or nil.
func CountersFrom(ctx context.Context) *Counters {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(countersKey{}).(*Counters)
	return c
}

// CountMessage records one sent or edited message.
func CountMessage(ctx context.Context, withKeyboard bool) {
	if c := CountersFrom(ctx); c != nil {
		c.messages.Add(1)
		if withKeyboard {
			c.keyboard.Store(true)
		}
	}
}

// CountAnswer records an answered button press.
func CountAnswer(ctx context.Context) {
	if c := CountersFrom(ctx); c != nil {
		c.answered.Store(true)
	}
}

// Snapshot returns the message count and whether any carried a keyboard.
func (c *Counters) Snapshot() (messages int, keyboard bool) {
	if c == nil {
		return 0, false
	}
	return int(c.messages.Load()), c.keyboard.Load()
}

// Answered reports whether the button press was answered.
func (c *Counters) Answered() bool {
	return c != nil && c.answered.Load()
}

// countingContext counts replies made directly through tele.Context.
type countingContext struct {
	tele.Context
	ctx context.Context
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m countingContext) count(err error, opts []any) error {
	if err == nil {
		CountMessage(m.ctx, hasKeyboard(opts))
	}
	return err
}

func (m countingContext) Send(what any, opts ...any) error {
	return m.count(m.Context.Send(what, opts...), opts)
}

func (m countingContext) Reply(what any, opts ...any) error {
	return m.count(m.Context.Reply(what, opts...), opts)
}

func (m countingContext) Edit(what any, opts ...any) error {
	return m.count(m.Context.Edit(what, opts...), opts)
}

func (m countingContext) Respond(resp ...*tele.CallbackResponse) error {
	err := m.Context.Respond(resp...)
	if err == nil {
		CountAnswer(m.ctx)
	}
	return err
}

// MessageMetricsMiddleware attaches per-update counters to the stored
// logging context, so both context replies and Transport calls made with
// that context are counted.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, _ := WithCounters(tghelpers.BuildContext(c))
		tghelpers.StoreContext(c, ctx)
		return next(countingContext{Context: c, ctx: ctx})
	}
}

// GetCounters reads the counters of the update behind c.
func GetCounters(c tele.Context) (int, bool) {
	ctx, ok := tghelpers.ContextFrom(c)
	if !ok {
		return 0, false
	}
	return CountersFrom(ctx).Snapshot()
}
