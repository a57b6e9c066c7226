package bot

import (
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
)

// Chat-scoped handler actions. Buttons carry them as the callback unique,
// chat commands are looked up with them by the router.
const (
	ActionNew    = "game.new"
	ActionResume = "game.resume"
	ActionRules  = "game.rules"

	ActionJoin  = "lobby.join"
	ActionStart = "lobby.start"

	ActionRoll         = "turn.roll"
	ActionEndTurn      = "turn.end"
	ActionPassTurn     = "turn.pass"
	ActionSmallDeal    = "deal.small"
	ActionBigDeal      = "deal.big"
	ActionCharityTake  = "charity.accept"
	ActionCharityPass  = "charity.decline"
	ActionConflictRoll = "conflict.roll"

	ActionKick   = "kick"
	ActionFinish = "finish"

	ActionOnboardingNext = "onboarding.next"
)

const (
	lobbyPrefix      = "lobby."
	onboardingPrefix = "onboarding."
)

var (
	menuActions  = []string{ActionNew, ActionResume, ActionRules, ActionFinish}
	lobbyActions = []string{ActionJoin, ActionStart}
	gameActions  = []string{
		ActionRoll, ActionEndTurn, ActionPassTurn,
		ActionSmallDeal, ActionBigDeal,
		ActionCharityTake, ActionCharityPass,
		ActionConflictRoll,
		ActionKick,
	}
)

func button(text, action string, chatID int64) tg.Button {
	return tg.Button{Text: text, Key: callbacks.NewKey(action, chatID)}
}

func menuKeyboard(chatID int64) tg.Keyboard {
	return tg.Keyboard{
		{button(btnNewGame, ActionNew, chatID), button(btnResume, ActionResume, chatID)},
		{button(btnRules, ActionRules, chatID)},
	}
}

func restartKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnNewGame, ActionNew, chatID))
}

func lobbyKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnJoin, ActionJoin, chatID), button(btnStart, ActionStart, chatID))
}

func turnKeyboard(chatID int64) tg.Keyboard {
	return tg.Keyboard{
		{button(btnPass, ActionPassTurn, chatID)},
		{button(btnRoll, ActionRoll, chatID)},
	}
}

func rollKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnRoll, ActionRoll, chatID))
}

func endTurnKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnEndTurn, ActionEndTurn, chatID))
}

func dealKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnSmallDeal, ActionSmallDeal, chatID), button(btnBigDeal, ActionBigDeal, chatID))
}

func charityKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnCharityTake, ActionCharityTake, chatID), button(btnCharityPass, ActionCharityPass, chatID))
}

func conflictKeyboard(chatID int64) tg.Keyboard {
	return tg.Row(button(btnConflict, ActionConflictRoll, chatID))
}
