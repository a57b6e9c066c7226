// Package keyboard converts plain button descriptions into telebot inline
// markup. Every button carries a unique action and a data payload, so
// presses are routed through the single callback endpoint.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn is one inline button.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// InlineButtonsRows lays the buttons out row by row. Empty rows are
// skipped and nil is returned when no button is left, which removes the
// keyboard when used in an edit.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		line := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			line = append(line, *markup.Data(b.Text, b.Unique, b.Data).Inline())
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, line)
	}
	if len(markup.InlineKeyboard) == 0 {
		return nil
	}
	return markup
}
