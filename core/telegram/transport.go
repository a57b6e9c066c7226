package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/m3rciful/cashflowbot/core/logger"
	"github.com/m3rciful/cashflowbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// ErrNotBound is returned by Transport before a bot has been bound.
var ErrNotBound = errors.New("telegram: transport not bound to a bot")

// Transport performs outbound chat actions through a telebot instance.
// It is created before the bot exists and bound once the runtime starts.
type Transport struct {
	bot atomic.Pointer[tele.Bot]
}

// NewTransport returns an unbound transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Bind attaches the running bot.
func (t *Transport) Bind(bot *tele.Bot) {
	t.bot.Store(bot)
}

func (t *Transport) api() (*tele.Bot, error) {
	if b := t.bot.Load(); b != nil {
		return b, nil
	}
	return nil, ErrNotBound
}

func sendOptions(opts SendOptions) *tele.SendOptions {
	so := &tele.SendOptions{ReplyMarkup: opts.Keyboard.Markup()}
	if opts.Markdown {
		so.ParseMode = tele.ModeMarkdownV2
	}
	return so
}

func stored(chatID int64, messageID int) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

func (t *Transport) fail(ctx context.Context, action string, chatID int64, err error) error {
	logger.Warn(ctx, "tg", "transport."+action,
		slog.String("status", "fail"),
		slog.Int64("chat_id", chatID),
		slog.String("err", err.Error()),
	)
	return err
}

// SendMessage sends a text message.
func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string, opts SendOptions) (Message, error) {
	bot, err := t.api()
	if err != nil {
		return Message{}, err
	}
	msg, err := bot.Send(tele.ChatID(chatID), text, sendOptions(opts))
	if err != nil {
		return Message{}, t.fail(ctx, "send_message", chatID, err)
	}
	middleware.CountMessage(ctx, len(opts.Keyboard) > 0)
	return Message{ID: msg.ID, ChatID: chatID}, nil
}

// SendPhoto sends a photo from a file reference or raw bytes.
func (t *Transport) SendPhoto(ctx context.Context, chatID int64, photo Photo, caption string, opts SendOptions) (Message, error) {
	bot, err := t.api()
	if err != nil {
		return Message{}, err
	}
	p := &tele.Photo{Caption: caption}
	if photo.FileID != "" {
		p.File = tele.File{FileID: photo.FileID}
	} else {
		p.File = tele.FromReader(bytes.NewReader(photo.Data))
	}
	msg, err := bot.Send(tele.ChatID(chatID), p, sendOptions(opts))
	if err != nil {
		return Message{}, t.fail(ctx, "send_photo", chatID, err)
	}
	middleware.CountMessage(ctx, len(opts.Keyboard) > 0)
	out := Message{ID: msg.ID, ChatID: chatID}
	if msg.Photo != nil {
		out.FileID = msg.Photo.FileID
	}
	return out, nil
}

// SendDice sends an animated dice and returns its value.
func (t *Transport) SendDice(ctx context.Context, chatID int64) (Message, error) {
	bot, err := t.api()
	if err != nil {
		return Message{}, err
	}
	msg, err := bot.Send(tele.ChatID(chatID), tele.Cube)
	if err != nil {
		return Message{}, t.fail(ctx, "send_dice", chatID, err)
	}
	middleware.CountMessage(ctx, false)
	out := Message{ID: msg.ID, ChatID: chatID}
	if msg.Dice != nil {
		out.Dice = msg.Dice.Value
	}
	return out, nil
}

// EditButtons replaces the inline keyboard of a message; an empty keyboard removes it.
func (t *Transport) EditButtons(ctx context.Context, chatID int64, messageID int, kb Keyboard) error {
	bot, err := t.api()
	if err != nil {
		return err
	}
	if _, err := bot.EditReplyMarkup(stored(chatID, messageID), kb.Markup()); err != nil {
		return t.fail(ctx, "edit_buttons", chatID, err)
	}
	return nil
}

// DeleteMessage deletes a message.
func (t *Transport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	bot, err := t.api()
	if err != nil {
		return err
	}
	if err := bot.Delete(stored(chatID, messageID)); err != nil {
		return t.fail(ctx, "delete_message", chatID, err)
	}
	return nil
}

// AnswerCallback answers a button press, optionally with a notice.
func (t *Transport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if callbackID == "" {
		return nil
	}
	bot, err := t.api()
	if err != nil {
		return err
	}
	if err := bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{Text: text}); err != nil {
		return t.fail(ctx, "answer_callback", 0, err)
	}
	middleware.CountAnswer(ctx)
	return nil
}
