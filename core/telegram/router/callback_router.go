package router

import (
	"errors"

	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// DefaultInactiveText answers presses of buttons whose handler is gone.
const DefaultInactiveText = "This button is no longer active"

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	InactiveText string
}

// CallbackRoute returns the route dispatching every button press to the
// chat-scoped handler installed under its key.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	inactive := opts.InactiveText
	if inactive == "" {
		inactive = DefaultInactiveText
	}
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key, err := callbacks.KeyFrom(cb)
		if err != nil {
			unique, _ := callbacks.ParseCallbackData(cb)
			newSummary("callback." + handlerName(unique)).skipped("malformed").log(c, nil)
			_ = c.Respond()
			return nil
		}
		s := newSummary("callback."+handlerName(key.Action), slog.String("cb_key", key.String()))

		h, ok := reg.Lookup(key)
		if !ok || (c.Chat() != nil && c.Chat().ID != key.ChatID) {
			s = s.skipped("not_found")
			s.outcome = ""
			return s.run(c, func() error {
				return c.Respond(&tele.CallbackResponse{Text: inactive})
			})
		}

		u := tg.UpdateFrom(c)
		u.Payload = key.SubKey
		return s.run(c, func() error {
			err := h(tghelpers.BuildContext(c), u)
			if err != nil && !errors.Is(err, callbacks.ErrChatIDNotFound) {
				_ = c.Respond()
				return err
			}
			return nil
		})
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  handler,
	}
}
