package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/commands"
	"log/slog"
)

// RegisterCommands adds the global commands to reg. /kick and /finish are
// chat-scoped and routed through the handlers a session installs.
func (m *Manager) RegisterCommands(reg *tg.Registry) {
	reg.RegisterCommand("/play", commands.Command{
		Handler:     tg.Adapt(m.Play),
		Description: "Start a Cashflow game",
	})
	reg.RegisterCommand("/roll", commands.Command{
		Handler:     tg.Adapt(m.Roll),
		Description: "Roll the dice",
	})
	reg.RegisterCommand("/onboarding", commands.Command{
		Handler:     tg.Adapt(m.Onboarding),
		Description: "Learn the rules",
		Aliases:     []string{"rules"},
	})
	reg.RegisterCommand("/history", commands.Command{
		Handler:     tg.Adapt(m.History),
		Description: "Recent game events in this chat",
	})
	reg.RegisterCommand("/start", commands.Command{
		Handler:     tg.Adapt(m.Start),
		Description: "How to begin",
		Hidden:      true,
	})
	reg.RegisterCommand("/sessions", commands.Command{
		Handler:     tg.Adapt(m.ListSessions),
		Description: "Active sessions",
		AdminOnly:   true,
	})
}

// Play opens the start menu. In a chat with a running game only the game
// admin may discard it; a session still in the lobby ignores repeated calls.
func (m *Manager) Play(ctx context.Context, u tg.Update) error {
	if g, ok := m.lookup(u.ChatID); ok {
		if !g.IsStarted() {
			logger.Debug(ctx, "session", "play.ignored", slog.String("reason", "lobby_open"))
			return nil
		}
		if !g.IsAdmin(u.UserID) {
			return m.say(ctx, u.ChatID, msgGameRunning, nil)
		}
		if _, ok := m.open(ctx, u.ChatID, g); !ok {
			return nil
		}
		return m.say(ctx, u.ChatID, msgDiscarded, restartKeyboard(u.ChatID))
	}

	if _, ok := m.open(ctx, u.ChatID, nil); !ok {
		return nil
	}
	_, err := m.transport.SendMessage(ctx, u.ChatID, welcomeText(), tg.SendOptions{
		Markdown: true,
		Keyboard: menuKeyboard(u.ChatID),
	})
	return err
}

// Roll throws a dice outside of any game.
func (m *Manager) Roll(ctx context.Context, u tg.Update) error {
	msg, err := m.throw(ctx, u.ChatID)
	if err != nil {
		return err
	}
	return m.say(ctx, u.ChatID, rolledText(u.Username, msg.Dice), nil)
}

// Start points newcomers at /play.
func (m *Manager) Start(ctx context.Context, u tg.Update) error {
	return m.say(ctx, u.ChatID, msgStartHint, nil)
}

// Onboarding runs the rules walkthrough.
func (m *Manager) Onboarding(ctx context.Context, u tg.Update) error {
	return m.startOnboarding(ctx, u.ChatID)
}

// History prints the latest journal entries of the chat.
func (m *Manager) History(ctx context.Context, u tg.Update) error {
	entries, err := m.opts.Journal.Recent(ctx, u.ChatID, m.opts.HistoryLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return m.say(ctx, u.ChatID, msgNoHistory, nil)
	}
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Fprintf(&b, "%s %s", e.At.UTC().Format("2006-01-02 15:04"), e.Event)
		if e.Detail != "" {
			fmt.Fprintf(&b, " %s", e.Detail)
		}
		b.WriteByte('\n')
	}
	return m.say(ctx, u.ChatID, strings.TrimRight(b.String(), "\n"), nil)
}

// ListSessions reports every active session to the bot operator.
func (m *Manager) ListSessions(ctx context.Context, u tg.Update) error {
	list := m.Sessions()
	if len(list) == 0 {
		return m.say(ctx, u.ChatID, msgNoSessions, nil)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", len(list))
	for _, s := range list {
		phase := "lobby"
		if s.Started {
			phase = "playing"
		}
		fmt.Fprintf(&b, "\n%d: %s, players %d, idle %s", s.ChatID, phase, s.Players, s.Idle.Truncate(time.Second))
	}
	return m.say(ctx, u.ChatID, b.String(), nil)
}
