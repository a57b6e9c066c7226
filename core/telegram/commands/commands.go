// Package commands describes global slash commands.
package commands

import tele "gopkg.in/telebot.v4"

// Command is a slash command available in every chat.
type Command struct {
	Handler tele.HandlerFunc
	// Description is shown in the Telegram command menu.
	Description string
	// AdminOnly commands are reserved to the bot operator and never listed.
	AdminOnly bool
	// Hidden commands work but are left out of the menu.
	Hidden  bool
	Aliases []string
}
