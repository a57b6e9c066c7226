package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineButtonsRows(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "Pass", Unique: "turn.pass", Data: "-100"}, {Text: "Roll", Unique: "turn.roll", Data: "-100"}},
		nil,
		[]InlineBtn{{Text: "Rules", Unique: "game.rules", Data: "-100"}},
	)
	require.NotNil(t, m)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Len(t, m.InlineKeyboard[0], 2)
	assert.Equal(t, "turn.roll", m.InlineKeyboard[0][1].Unique)
	assert.Equal(t, "-100", m.InlineKeyboard[0][1].Data)
	assert.Equal(t, "Rules", m.InlineKeyboard[1][0].Text)

	assert.Nil(t, InlineButtonsRows())
}
