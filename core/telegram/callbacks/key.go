package callbacks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ErrChatIDNotFound is returned when callback data carries no usable chat id.
var ErrChatIDNotFound = errors.New("callbacks: chat id not found")

// Key identifies a chat-scoped handler: an action, the chat it belongs to
// and an optional sub key for keyed sub-flows.
type Key struct {
	Action string
	ChatID int64
	SubKey string
}

// NewKey builds a key without a sub key.
func NewKey(action string, chatID int64) Key {
	return Key{Action: action, ChatID: chatID}
}

// With returns a copy of k carrying sub.
func (k Key) With(sub string) Key {
	k.SubKey = sub
	return k
}

// Payload is the button payload part: "<chat>" or "<chat>|<sub>".
func (k Key) Payload() string {
	chat := strconv.FormatInt(k.ChatID, 10)
	if k.SubKey == "" {
		return chat
	}
	return chat + "|" + k.SubKey
}

// String renders the key for logs.
func (k Key) String() string {
	if k.SubKey == "" {
		return fmt.Sprintf("%s:%d", k.Action, k.ChatID)
	}
	return fmt.Sprintf("%s:%d:%s", k.Action, k.ChatID, k.SubKey)
}

// HasPrefix reports whether the key action starts with prefix.
func (k Key) HasPrefix(prefix string) bool {
	return strings.HasPrefix(k.Action, prefix)
}

// ParseKey rebuilds a key from the unique and payload parts of callback data.
func ParseKey(unique, payload string) (Key, error) {
	unique = strings.TrimSpace(unique)
	if unique == "" {
		return Key{}, fmt.Errorf("callbacks: empty action")
	}
	chatPart, sub, _ := strings.Cut(payload, "|")
	chatPart = strings.TrimSpace(chatPart)
	if chatPart == "" {
		return Key{}, ErrChatIDNotFound
	}
	chatID, err := strconv.ParseInt(chatPart, 10, 64)
	if err != nil || chatID == 0 {
		return Key{}, ErrChatIDNotFound
	}
	return Key{Action: unique, ChatID: chatID, SubKey: sub}, nil
}

// ParseCallbackData splits a press into its unique action and payload.
// Presses matched by telebot arrive split already; others keep the raw
// "\f<unique>|<payload>" form, which some clients send escaped.
func ParseCallbackData(cb *tele.Callback) (unique, payload string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(strings.TrimPrefix(cb.Data, "\f"), "\\f")
	unique, payload, _ = strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// KeyFrom parses the structured key of a callback.
func KeyFrom(cb *tele.Callback) (Key, error) {
	if cb == nil {
		return Key{}, ErrChatIDNotFound
	}
	return ParseKey(ParseCallbackData(cb))
}
