package telegram

import (
	"context"

	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
	"github.com/m3rciful/cashflowbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Update is the transport-neutral view of an inbound command or button press.
type Update struct {
	ID         int
	ChatID     int64
	UserID     int64
	Username   string
	CallbackID string
	MessageID  int
	// Payload holds command arguments or the callback sub key.
	Payload string
}

// ChatHandler handles one update routed to a chat.
type ChatHandler func(ctx context.Context, u Update) error

// Button is an inline button bound to a chat-scoped handler key.
type Button struct {
	Text string
	Key  callbacks.Key
}

// Keyboard lays buttons out in rows.
type Keyboard [][]Button

// Row is a shorthand for a single-row keyboard.
func Row(buttons ...Button) Keyboard {
	return Keyboard{buttons}
}

// Markup converts the keyboard to inline reply markup; nil when empty.
func (k Keyboard) Markup() *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(k))
	for _, row := range k {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			btns = append(btns, keyboard.InlineBtn{Text: b.Text, Unique: b.Key.Action, Data: b.Key.Payload()})
		}
		rows = append(rows, btns)
	}
	return keyboard.InlineButtonsRows(rows...)
}

// Photo is either a previously uploaded file reference or raw image bytes.
type Photo struct {
	FileID string
	Data   []byte
}

// Message references a sent message.
type Message struct {
	ID     int
	ChatID int64
	// FileID is set for photos and can be reused instead of uploading again.
	FileID string
	// Dice is the value of a dice message.
	Dice int
}

// SendOptions control formatting and buttons of an outgoing message.
type SendOptions struct {
	Markdown bool
	Keyboard Keyboard
}
