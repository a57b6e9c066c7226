package telegram

import (
	"strings"

	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// UpdateFrom extracts the transport-neutral update from a telebot context.
func UpdateFrom(c tele.Context) Update {
	u := Update{ID: c.Update().ID}
	if chat := c.Chat(); chat != nil {
		u.ChatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		u.UserID = user.ID
		u.Username = DisplayName(user)
	}
	if cb := c.Callback(); cb != nil {
		u.CallbackID = cb.ID
		if cb.Message != nil {
			u.MessageID = cb.Message.ID
		}
		return u
	}
	if msg := c.Message(); msg != nil {
		u.MessageID = msg.ID
		u.Payload = strings.TrimSpace(msg.Payload)
	}
	return u
}

// DisplayName prefers the username and falls back to the first name.
func DisplayName(user *tele.User) string {
	if user == nil {
		return ""
	}
	if user.Username != "" {
		return user.Username
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return "player"
	}
	return name
}

// Adapt exposes a ChatHandler as a telebot handler for global commands.
func Adapt(h ChatHandler) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h(tghelpers.BuildContext(c), UpdateFrom(c))
	}
}
