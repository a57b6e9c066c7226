package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m3rciful/cashflowbot/core/telegram/format"
	"github.com/m3rciful/cashflowbot/game"
)

const (
	btnNewGame     = "New game"
	btnResume      = "Resume game"
	btnRules       = "Rules"
	btnJoin        = "Join the game"
	btnStart       = "Start the game"
	btnRoll        = "Roll the dice 🎲"
	btnPass        = "Pass the turn"
	btnEndTurn     = "End turn"
	btnSmallDeal   = "Small deals"
	btnBigDeal     = "Big deals"
	btnCharityTake = "Take part"
	btnCharityPass = "Decline"
	btnConflict    = "Resolve conflict 🎲"
	btnNext        = "Next"
)

const (
	msgStartHint     = "To start the game type /play"
	msgSessionEnded  = "The session has ended. Type /play to start again."
	msgGameFinished  = "The game is over. Type /play to start a new one."
	msgDiscarded     = "The previous game was discarded. Start a new one"
	msgGameRunning   = "A game is already running. Only its admin can restart it with /play."
	msgNobodyJoined  = "Nobody has joined the game yet. Tap \"Join the game\" first."
	msgKickUsage     = "Usage: /kick @name"
	msgAdminOnly     = "Only the game admin can do that."
	msgNoSessions    = "No active sessions."
	msgNoHistory     = "No game events yet."
	msgKickAdmin     = "The game admin cannot be removed."
	msgKickWait      = "Wait until the dice settles."
	msgNotStartedYet = "The game has not started yet."

	noticeCreating    = "Creating a new game"
	noticeRolling     = "Rolling the dice"
	noticeEnding      = "Ending the turn"
	noticePassing     = "Passing the turn"
	noticeJoinedTwice = "You are already in the game"
	noticeNoResume    = "There is no game to resume"
	noticeRunning     = "A game is already running. Use /play to restart it"
)

func welcomeText() string {
	return "Welcome\\! This is the " + format.Bold("Cashflow") + " game\\. Tap one of the buttons below"
}

func lobbyText() string {
	return "Every player who wants to join taps " + format.Bold(btnJoin) + "\\. " +
		"Attention\\! Only the host taps " + format.Bold(btnStart)
}

func joinedText(name string) string {
	return fmt.Sprintf("%s joined the game", name)
}

func professionCaption(p game.Player) string {
	return fmt.Sprintf("%s, your profession: %s", p.Name, p.Profession.Description())
}

func yourTurnText(name string) string {
	return fmt.Sprintf("%s, your turn", name)
}

func youAreHereText(name string) string {
	return fmt.Sprintf("%s, you are here", name)
}

func rolledText(name string, dice int) string {
	return fmt.Sprintf("%s, you rolled: %d", name, dice)
}

// landingCaption describes the landed cell and returns the buttons of the next step.
func landingCaption(l game.Landing) (string, keyboardFn) {
	head := rolledText(l.Player.Name, l.Dice)
	switch l.Cell {
	case game.Possibilities:
		return fmt.Sprintf("%s\n\nYou are on: %s\n\nChoose a small or a big deal:", head, l.Cell.Title()), dealKeyboard
	case game.CharityAcquaintance:
		return fmt.Sprintf("%s\n\n%s", head, l.Cell.Description()), charityKeyboard
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nYou are on: %s", head, l.Cell.Title())
	if desc := l.Cell.Description(); desc != "" && desc != l.Card {
		b.WriteString(". " + desc)
	}
	if l.Card != "" {
		b.WriteString("\n\n" + l.Card)
	}
	b.WriteString("\n\nMake your moves or end the turn")
	return b.String(), endTurnKeyboard
}

func dealText(big bool, card string) string {
	kind := "Small deal"
	if big {
		kind = "Big deal"
	}
	return fmt.Sprintf("%s:\n\n%s", kind, card)
}

func charityText(accepted bool, card string) string {
	if accepted {
		return "Great! Give 10% of your income to the fund and roll the dice three times on your next turns.\n\n" +
			"You also get a chance to know your partner better. Take 3-5 minutes to discuss the question below together.\n\n" + card
	}
	return "Maybe next time! You get a chance to know your partner better. " +
		"Take 3-5 minutes to discuss the question on the card below together.\n\n" + card
}

func bonusRollText(left int) string {
	return fmt.Sprintf("Thanks to your generosity you may speed up and roll again. Rolls left: %d", left)
}

func skipText(s game.Skip) string {
	text := fmt.Sprintf("%s skips a turn", s.Player.Name)
	if s.Remaining == 1 {
		text += ". One more turn to skip"
	}
	return text
}

func conflictReminderText(p game.Player) string {
	return fmt.Sprintf("%s, a reminder of your conflict:\n\n%s\n\nLet's check the first option. Roll the dice", p.Name, p.ConflictReminder)
}

func conflictOutcomeText(out game.ConflictOutcome) string {
	switch {
	case out.Resolved:
		return fmt.Sprintf("Congratulations! You settled the conflict with option %d! "+
			"Record double income in your statement and keep playing.", out.Attempt)
	case out.Exhausted:
		return "The conflict is not settled, no income this time. Continue your turn."
	}
	return fmt.Sprintf("Your partner does not agree. The conflict is not settled. Try option %d", out.Attempt+1)
}

func kickedText(name string) string {
	return fmt.Sprintf("Player %s removed from the game", name)
}

func kickNotFoundText(name string) string {
	return fmt.Sprintf("Player %s not found", name)
}

// guardNotice maps rejected game actions to the short answer shown to the tapping user.
func guardNotice(err error) (string, bool) {
	switch {
	case errors.Is(err, game.ErrDiceLocked):
		return "The dice is still rolling", true
	case errors.Is(err, game.ErrNotYourTurn):
		return "It is not your turn", true
	case errors.Is(err, game.ErrTurnOpen):
		return "Finish the current turn first", true
	case errors.Is(err, game.ErrTurnClosed):
		return "Roll the dice first", true
	case errors.Is(err, game.ErrNoChoicePending):
		return "This choice is already made", true
	case errors.Is(err, game.ErrConflictPending):
		return "Settle the conflict first", true
	case errors.Is(err, game.ErrNoConflict):
		return "There is no conflict to settle", true
	case errors.Is(err, game.ErrNotStarted):
		return msgNotStartedYet, true
	case errors.Is(err, game.ErrAlreadyStarted):
		return "The game has already started", true
	case errors.Is(err, game.ErrAlreadyJoined):
		return noticeJoinedTwice, true
	case errors.Is(err, game.ErrEmptyPlayers):
		return "Nobody has joined the game yet", true
	}
	return "", false
}
