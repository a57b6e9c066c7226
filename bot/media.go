package bot

import (
	"context"
	"errors"

	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/game"
	"github.com/m3rciful/cashflowbot/render"
	"log/slog"
)

// image describes one cacheable picture.
type image struct {
	kind   string
	cached func() (string, bool)
	store  func(ref string)
	forget func()
	draw   func() ([]byte, error)
}

func (m *Manager) boardImage(position int) image {
	c := m.opts.Cache
	return image{
		kind:   "board",
		cached: func() (string, bool) { return c.GetValue(position) },
		store:  func(ref string) { c.SetValue(position, ref) },
		forget: func() { c.Forget(position) },
		draw:   func() ([]byte, error) { return m.opts.Boards.RenderBoard(position) },
	}
}

func (m *Manager) cardImage(p game.Profession) image {
	c := m.opts.Cache
	name := string(p)
	return image{
		kind:   "card",
		cached: func() (string, bool) { return c.GetCardValue(name) },
		store:  func(ref string) { c.SetCardValue(name, ref) },
		forget: func() { c.ForgetCard(name) },
		draw:   func() ([]byte, error) { return m.opts.Cards.RenderCard(name) },
	}
}

func (m *Manager) sendBoard(ctx context.Context, chatID int64, position int, caption string, kb tg.Keyboard) error {
	return m.sendImage(ctx, chatID, m.boardImage(position), caption, kb, slog.Int("position", position))
}

func (m *Manager) sendCard(ctx context.Context, chatID int64, p game.Player) error {
	return m.sendImage(ctx, chatID, m.cardImage(p.Profession), professionCaption(p), nil, slog.String("profession", string(p.Profession)))
}

// sendImage reuses an uploaded file when one is cached, uploads a fresh
// render otherwise and falls back to a plain message when nothing can be drawn.
func (m *Manager) sendImage(ctx context.Context, chatID int64, img image, caption string, kb tg.Keyboard, attr slog.Attr) error {
	opts := tg.SendOptions{Keyboard: kb}
	if ref, ok := img.cached(); ok {
		_, err := m.transport.SendPhoto(ctx, chatID, tg.Photo{FileID: ref}, caption, opts)
		if err == nil {
			logger.Debug(ctx, "render", "image.sent", slog.String("kind", img.kind), slog.String("cache", "hit"), attr)
			return nil
		}
		img.forget()
		logger.Warn(ctx, "render", "image.cached_ref_failed",
			slog.String("kind", img.kind),
			attr,
			slog.String("err", err.Error()),
		)
	}

	data, err := img.draw()
	if err != nil {
		if !errors.Is(err, render.ErrNoImage) {
			logger.Warn(ctx, "render", "image.render_failed",
				slog.String("kind", img.kind),
				attr,
				slog.String("err", err.Error()),
			)
		}
		_, err = m.transport.SendMessage(ctx, chatID, caption, opts)
		return err
	}

	msg, err := m.transport.SendPhoto(ctx, chatID, tg.Photo{Data: data}, caption, opts)
	if err != nil {
		return err
	}
	img.store(msg.FileID)
	logger.Debug(ctx, "render", "image.sent", slog.String("kind", img.kind), slog.String("cache", "miss"), attr)
	return nil
}
