package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
	"github.com/m3rciful/cashflowbot/core/telegram/router"
)

const onboardingStart = "start"

type onboardingStep struct {
	key  string
	text string
	// next is empty on the last step.
	next string
}

var onboardingSteps = []onboardingStep{
	{
		key:  onboardingStart,
		text: "Cashflow is a board game about money habits. Every player gets a profession " +
			"with its income and expenses and tries to build passive income larger than the expenses.",
		next: "board",
	},
	{
		key:  "board",
		text: "The board is a ring of 24 cells. Everyone starts on the same cell and moves clockwise " +
			"by the number rolled on the dice. The bot draws the board with your marker after every roll.",
		next: "turn",
	},
	{
		key:  "turn",
		text: "On your turn tap \"Roll the dice\". When the dice settles you land on a cell and read its card. " +
			"Make your moves, then tap \"End turn\". \"Pass the turn\" hands it over without rolling.",
		next: "deals",
	},
	{
		key:  "deals",
		text: "Opportunities let you choose a small or a big deal. Market and Luxury cards apply at once. " +
			"Payday cells bring a conflict card that you settle at the start of your next turn.",
		next: "conflict",
	},
	{
		key:  "conflict",
		text: "A conflict gives you three options. Roll for each one: four or more settles it and doubles your income. " +
			"If all three fail you get no income this time.",
		next: "charity",
	},
	{
		key:  "charity",
		text: "Charity asks you to donate 10% of your income. Accept and you roll three extra times on your next turns. " +
			"Either way you draw a card to talk over with your partner.",
		next: "dismissal",
	},
	{
		key:  "dismissal",
		text: "Dismissal makes you skip your next two turns. A child adds expenses and brings a gift.",
		next: "finish",
	},
	{
		key:  "finish",
		text: "That's it! Type /play to start a game. The host taps \"Start the game\" and may /kick players or /finish the game.",
	},
}

func findStep(key string) (onboardingStep, bool) {
	for _, s := range onboardingSteps {
		if s.key == key {
			return s, true
		}
	}
	return onboardingStep{}, false
}

// startOnboarding drops any walkthrough already running in chatID and shows
// the first rules step.
func (m *Manager) startOnboarding(ctx context.Context, chatID int64) error {
	if n := m.registry.RemoveByPrefix(chatID, onboardingPrefix); n > 0 {
		logger.Debug(ctx, "session", "onboarding.restart",
			slog.Int64("chat_id", chatID),
			slog.Int("handlers", n),
		)
	}
	return m.showStep(ctx, chatID, onboardingStart)
}

// showStep sends the text of key and installs the button leading past it.
func (m *Manager) showStep(ctx context.Context, chatID int64, key string) error {
	step, ok := findStep(key)
	if !ok {
		return fmt.Errorf("bot: unknown onboarding step %q", key)
	}

	var kb tg.Keyboard
	if step.next != "" {
		next := callbacks.NewKey(ActionOnboardingNext, chatID).With(step.next)
		if err := m.registry.Install(next, m.nextStep); err != nil {
			logger.Debug(ctx, "session", "onboarding.install",
				slog.String("key", next.String()),
				slog.String("err", err.Error()),
			)
		}
		kb = tg.Row(tg.Button{Text: btnNext, Key: next})
	}
	logger.Debug(ctx, "session", "onboarding.step",
		slog.Int64("chat_id", chatID),
		slog.String("step", key),
	)
	return m.say(ctx, chatID, step.text, kb)
}

// nextStep consumes the pressed button. A second press of the same button
// finds nothing to remove and is ignored.
func (m *Manager) nextStep(ctx context.Context, u tg.Update) error {
	pressed := callbacks.NewKey(ActionOnboardingNext, u.ChatID).With(u.Payload)
	if err := m.registry.Remove(pressed); err != nil {
		if !errors.Is(err, tg.ErrHandlerNotFound) {
			return err
		}
		logger.Debug(ctx, "session", "onboarding.stale",
			slog.String("key", pressed.String()),
			slog.String("err", err.Error()),
		)
		m.answer(ctx, u, router.DefaultInactiveText)
		return nil
	}
	m.answer(ctx, u, "")
	m.stripButtons(ctx, u)
	return m.showStep(ctx, u.ChatID, u.Payload)
}
