package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/router"
	"github.com/m3rciful/cashflowbot/game"
	"github.com/m3rciful/cashflowbot/journal"
	"log/slog"
)

// errNoDiceValue is returned when the transport did not report a dice result.
var errNoDiceValue = errors.New("bot: dice message without value")

// flowFunc handles an update for the game it was installed with.
type flowFunc func(ctx context.Context, u tg.Update, g *game.Game) error

type keyboardFn func(chatID int64) tg.Keyboard

func (m *Manager) gameHandler(action string) (flowFunc, bool) {
	switch action {
	case ActionNew:
		return m.showLobby, true
	case ActionResume:
		return m.resume, true
	case ActionRules:
		return m.rules, true
	case ActionJoin:
		return m.join, true
	case ActionStart:
		return m.start, true
	case ActionRoll:
		return m.roll, true
	case ActionEndTurn:
		return m.endTurn, true
	case ActionPassTurn:
		return m.passTurn, true
	case ActionSmallDeal:
		return m.deal(false), true
	case ActionBigDeal:
		return m.deal(true), true
	case ActionCharityTake:
		return m.charity(true), true
	case ActionCharityPass:
		return m.charity(false), true
	case ActionConflictRoll:
		return m.conflictRoll, true
	case ActionKick:
		return m.kick, true
	case ActionFinish:
		return m.finish, true
	}
	return nil, false
}

// bind ties fn to g. Once the chat moved on to another game or closed its
// session the handler only answers that the button is gone.
func (m *Manager) bind(chatID int64, g *game.Game, fn flowFunc) tg.ChatHandler {
	return func(ctx context.Context, u tg.Update) error {
		if !m.isCurrent(chatID, g) {
			m.answer(ctx, u, router.DefaultInactiveText)
			return nil
		}
		return fn(logger.WithGame(ctx, g.ID().String()), u, g)
	}
}

func (m *Manager) answer(ctx context.Context, u tg.Update, text string) {
	if u.CallbackID == "" {
		return
	}
	_ = m.transport.AnswerCallback(ctx, u.CallbackID, text)
}

// reject answers a guard failure to the user. Errors without a notice are returned as is.
func (m *Manager) reject(ctx context.Context, u tg.Update, err error) error {
	text, ok := guardNotice(err)
	if !ok {
		return err
	}
	logger.Debug(ctx, "game", "guard.rejected",
		slog.Int64("user_id", u.UserID),
		slog.String("reason", err.Error()),
	)
	if u.CallbackID == "" {
		return m.say(ctx, u.ChatID, text, nil)
	}
	m.answer(ctx, u, text)
	return nil
}

func (m *Manager) say(ctx context.Context, chatID int64, text string, kb tg.Keyboard) error {
	_, err := m.transport.SendMessage(ctx, chatID, text, tg.SendOptions{Keyboard: kb})
	return err
}

// stripButtons removes the keyboard of the pressed message.
func (m *Manager) stripButtons(ctx context.Context, u tg.Update) {
	if u.MessageID == 0 {
		return
	}
	err := m.opts.Scheduler.Enqueue(ctx, "strip_buttons", "editMessageReplyMarkup", func() error {
		return m.transport.EditButtons(ctx, u.ChatID, u.MessageID, nil)
	})
	if err != nil {
		logger.Debug(ctx, "game", "strip_buttons.skipped", slog.String("err", err.Error()))
	}
}

// settle waits for the dice animation to finish.
func (m *Manager) settle(ctx context.Context) error {
	if m.opts.RollSettle <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.opts.RollSettle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Manager) dropDice(ctx context.Context, chatID int64, msg tg.Message) {
	if msg.ID == 0 {
		return
	}
	m.opts.Scheduler.EnqueueAfter(ctx, m.opts.DiceCleanup, "delete_dice", "deleteMessage", func() error {
		return m.transport.DeleteMessage(ctx, chatID, msg.ID)
	})
}

// throw sends the animated dice and waits for it to settle. A dice that
// cannot be used is scheduled for deletion before the error is returned.
func (m *Manager) throw(ctx context.Context, chatID int64) (tg.Message, error) {
	msg, err := m.transport.SendDice(ctx, chatID)
	if err != nil {
		return tg.Message{}, err
	}
	if msg.Dice < 1 {
		err = errNoDiceValue
	} else {
		err = m.settle(ctx)
	}
	if err != nil {
		m.dropDice(ctx, chatID, msg)
		return msg, err
	}
	return msg, nil
}

func (m *Manager) showLobby(ctx context.Context, u tg.Update, g *game.Game) error {
	if g.IsStarted() {
		m.answer(ctx, u, noticeRunning)
		return nil
	}
	m.answer(ctx, u, "")
	if !m.install(u.ChatID, g, lobbyActions) {
		return nil
	}
	_, err := m.transport.SendMessage(ctx, u.ChatID, lobbyText(), tg.SendOptions{
		Markdown: true,
		Keyboard: lobbyKeyboard(u.ChatID),
	})
	return err
}

func (m *Manager) resume(ctx context.Context, u tg.Update, g *game.Game) error {
	if !g.IsStarted() {
		m.answer(ctx, u, noticeNoResume)
		return nil
	}
	m.answer(ctx, u, "")
	return m.promptTurn(ctx, u.ChatID, g)
}

func (m *Manager) rules(ctx context.Context, u tg.Update, _ *game.Game) error {
	m.answer(ctx, u, "")
	return m.startOnboarding(ctx, u.ChatID)
}

func (m *Manager) join(ctx context.Context, u tg.Update, g *game.Game) error {
	if err := g.Join(u.UserID, u.Username); err != nil {
		return m.reject(ctx, u, err)
	}
	m.answer(ctx, u, "")
	logger.Info(ctx, "game", "player.joined",
		slog.Int64("player_id", u.UserID),
		slog.Int("players", len(g.Players())),
	)
	m.record(ctx, u.ChatID, g, journal.EventPlayerJoined, u.UserID, u.Username)
	return m.say(ctx, u.ChatID, joinedText(u.Username), nil)
}

func (m *Manager) start(ctx context.Context, u tg.Update, g *game.Game) error {
	players, err := g.StartGame(u.UserID)
	if errors.Is(err, game.ErrEmptyPlayers) {
		m.answer(ctx, u, "")
		return m.say(ctx, u.ChatID, msgNobodyJoined, nil)
	}
	if err != nil {
		return m.reject(ctx, u, err)
	}
	m.answer(ctx, u, noticeCreating)
	m.stripButtons(ctx, u)
	m.uninstall(u.ChatID, g, lobbyPrefix)
	if !m.install(u.ChatID, g, gameActions) {
		return nil
	}

	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	logger.Info(ctx, "game", "game.started",
		slog.Int64("admin_id", u.UserID),
		slog.Int("players", len(players)),
		logger.ListAttr("order", names, 6),
	)
	m.record(ctx, u.ChatID, g, journal.EventGameStarted, u.UserID, fmt.Sprintf("players=%d", len(players)))

	for _, p := range players {
		if err := m.sendCard(ctx, u.ChatID, p); err != nil {
			logger.Warn(ctx, "game", "card.send_failed",
				slog.Int64("player_id", p.ID),
				slog.String("err", err.Error()),
			)
		}
	}
	cur, ok := g.CurrentPlayer()
	if !ok {
		return nil
	}
	return m.sendBoard(ctx, u.ChatID, cur.Position, yourTurnText(cur.Name), rollKeyboard(u.ChatID))
}

func (m *Manager) roll(ctx context.Context, u tg.Update, g *game.Game) error {
	if _, err := g.BeginRoll(u.UserID); err != nil {
		return m.reject(ctx, u, err)
	}
	m.answer(ctx, u, noticeRolling)
	m.stripButtons(ctx, u)

	msg, err := m.throw(ctx, u.ChatID)
	if err != nil {
		g.AbortRoll()
		return err
	}
	m.dropDice(ctx, u.ChatID, msg)
	if !m.isCurrent(u.ChatID, g) {
		return nil
	}

	landing, err := g.Land(msg.Dice)
	if err != nil {
		g.AbortRoll()
		return err
	}
	defer g.ReleaseDice()

	logger.Info(ctx, "game", "dice.rolled",
		slog.Int64("player_id", landing.Player.ID),
		slog.Int("dice", landing.Dice),
		slog.Int("position", landing.Player.Position),
		slog.String("cell", landing.Cell.String()),
	)
	m.record(ctx, u.ChatID, g, journal.EventDiceRolled, landing.Player.ID,
		fmt.Sprintf("dice=%d position=%d cell=%s", landing.Dice, landing.Player.Position, landing.Cell))

	caption, kb := landingCaption(landing)
	return m.sendBoard(ctx, u.ChatID, landing.Player.Position, caption, kb(u.ChatID))
}

func (m *Manager) endTurn(ctx context.Context, u tg.Update, g *game.Game) error {
	adv, err := g.EndTurn(u.UserID)
	if err != nil {
		return m.reject(ctx, u, err)
	}
	m.answer(ctx, u, noticeEnding)
	m.stripButtons(ctx, u)
	return m.handOver(ctx, u, g, adv, "end")
}

func (m *Manager) passTurn(ctx context.Context, u tg.Update, g *game.Game) error {
	adv, err := g.PassTurn(u.UserID)
	if err != nil {
		return m.reject(ctx, u, err)
	}
	m.answer(ctx, u, noticePassing)
	m.stripButtons(ctx, u)
	return m.handOver(ctx, u, g, adv, "pass")
}

func (m *Manager) handOver(ctx context.Context, u tg.Update, g *game.Game, adv game.Advance, how string) error {
	attrs := []slog.Attr{
		slog.String("action", how),
		slog.Bool("bonus", adv.BonusRoll),
		slog.Int("skipped", len(adv.Skipped)),
	}
	if adv.HasPlayer {
		attrs = append(attrs, slog.Int64("player_id", adv.Current.ID))
	}
	logger.Info(ctx, "game", "turn.ended", attrs...)
	m.record(ctx, u.ChatID, g, journal.EventTurnEnded, u.UserID, how)
	return m.announce(ctx, u.ChatID, adv)
}

// announce reports a hand-over: bonus rolls, skipped players and who plays next.
func (m *Manager) announce(ctx context.Context, chatID int64, adv game.Advance) error {
	if adv.BonusRoll {
		if err := m.say(ctx, chatID, bonusRollText(adv.BonusLeft), nil); err != nil {
			return err
		}
	}
	for _, s := range adv.Skipped {
		if err := m.say(ctx, chatID, skipText(s), nil); err != nil {
			return err
		}
	}
	if !adv.HasPlayer {
		return nil
	}
	cur := adv.Current
	if adv.Conflict {
		return m.say(ctx, chatID, conflictReminderText(cur), conflictKeyboard(chatID))
	}
	if err := m.sendBoard(ctx, chatID, cur.Position, youAreHereText(cur.Name), nil); err != nil {
		return err
	}
	return m.say(ctx, chatID, yourTurnText(cur.Name), turnKeyboard(chatID))
}

// promptTurn re-posts the board and the buttons matching the current turn state.
func (m *Manager) promptTurn(ctx context.Context, chatID int64, g *game.Game) error {
	cur, ok := g.CurrentPlayer()
	if !ok {
		return nil
	}
	turn := g.Turn()
	if turn.ConflictPending {
		return m.say(ctx, chatID, conflictReminderText(cur), conflictKeyboard(chatID))
	}
	if err := m.sendBoard(ctx, chatID, cur.Position, youAreHereText(cur.Name), nil); err != nil {
		return err
	}
	kb := turnKeyboard
	switch {
	case turn.DealChoicePending:
		kb = dealKeyboard
	case turn.CharityChoicePending:
		kb = charityKeyboard
	case turn.Open:
		kb = endTurnKeyboard
	}
	return m.say(ctx, chatID, yourTurnText(cur.Name), kb(chatID))
}

func (m *Manager) deal(big bool) flowFunc {
	return func(ctx context.Context, u tg.Update, g *game.Game) error {
		card, err := g.ChooseDeal(u.UserID, big)
		if err != nil {
			return m.reject(ctx, u, err)
		}
		m.answer(ctx, u, "")
		m.stripButtons(ctx, u)
		logger.Debug(ctx, "game", "deal.drawn", slog.Bool("big", big))
		return m.say(ctx, u.ChatID, dealText(big, card), endTurnKeyboard(u.ChatID))
	}
}

func (m *Manager) charity(accept bool) flowFunc {
	return func(ctx context.Context, u tg.Update, g *game.Game) error {
		card, err := g.ChooseCharity(u.UserID, accept)
		if err != nil {
			return m.reject(ctx, u, err)
		}
		m.answer(ctx, u, "")
		m.stripButtons(ctx, u)
		logger.Debug(ctx, "game", "charity.chosen", slog.Bool("accepted", accept))
		return m.say(ctx, u.ChatID, charityText(accept, card), endTurnKeyboard(u.ChatID))
	}
}

func (m *Manager) conflictRoll(ctx context.Context, u tg.Update, g *game.Game) error {
	if _, err := g.BeginConflictRoll(u.UserID); err != nil {
		return m.reject(ctx, u, err)
	}
	m.answer(ctx, u, noticeRolling)
	m.stripButtons(ctx, u)

	msg, err := m.throw(ctx, u.ChatID)
	if err != nil {
		g.AbortConflictRoll()
		return err
	}
	m.dropDice(ctx, u.ChatID, msg)
	if !m.isCurrent(u.ChatID, g) {
		return nil
	}

	out := g.ResolveConflictRoll(msg.Dice)
	logger.Info(ctx, "game", "conflict.rolled",
		slog.Int64("player_id", out.Player.ID),
		slog.Int("dice", out.Dice),
		slog.Int("attempt", out.Attempt),
		slog.Bool("resolved", out.Resolved),
	)
	m.record(ctx, u.ChatID, g, journal.EventConflictRoll, out.Player.ID,
		fmt.Sprintf("dice=%d attempt=%d resolved=%t", out.Dice, out.Attempt, out.Resolved))

	kb := turnKeyboard
	if !out.Resolved && !out.Exhausted {
		kb = conflictKeyboard
	}
	return m.say(ctx, u.ChatID, conflictOutcomeText(out), kb(u.ChatID))
}

func (m *Manager) kick(ctx context.Context, u tg.Update, g *game.Game) error {
	if !g.IsAdmin(u.UserID) {
		return m.say(ctx, u.ChatID, msgAdminOnly, nil)
	}
	name := strings.TrimSpace(u.Payload)
	if name == "" {
		return m.say(ctx, u.ChatID, msgKickUsage, nil)
	}

	res, err := g.Kick(name)
	switch {
	case errors.Is(err, game.ErrPlayerNotFound):
		return m.say(ctx, u.ChatID, kickNotFoundText(name), nil)
	case errors.Is(err, game.ErrKickAdmin):
		return m.say(ctx, u.ChatID, msgKickAdmin, nil)
	case errors.Is(err, game.ErrDiceLocked):
		return m.say(ctx, u.ChatID, msgKickWait, nil)
	case errors.Is(err, game.ErrNotStarted):
		return m.say(ctx, u.ChatID, msgNotStartedYet, nil)
	case err != nil:
		return err
	}

	logger.Info(ctx, "game", "player.kicked",
		slog.Int64("player_id", res.Removed.ID),
		slog.Bool("was_current", res.WasCurrent),
	)
	m.record(ctx, u.ChatID, g, journal.EventPlayerKicked, res.Removed.ID, res.Removed.Name)
	if err := m.say(ctx, u.ChatID, kickedText(res.Removed.Name), nil); err != nil {
		return err
	}
	if res.WasCurrent {
		return m.announce(ctx, u.ChatID, res.Advance)
	}
	return nil
}

// finish ends the session on the admin's request. A lobby has no admin yet,
// so anyone may close it.
func (m *Manager) finish(ctx context.Context, u tg.Update, g *game.Game) error {
	if g.IsStarted() && !g.IsAdmin(u.UserID) {
		return m.say(ctx, u.ChatID, msgAdminOnly, nil)
	}
	if !m.close(ctx, u.ChatID, g, "finished") {
		return nil
	}
	return m.say(ctx, u.ChatID, msgGameFinished, nil)
}
