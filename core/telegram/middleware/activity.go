package middleware

import tele "gopkg.in/telebot.v4"

// ChatActivity reports every update that belongs to a chat before handling it.
func ChatActivity(touch func(chatID int64)) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if chat := c.Chat(); chat != nil && touch != nil {
				touch(chat.ID)
			}
			return next(c)
		}
	}
}
