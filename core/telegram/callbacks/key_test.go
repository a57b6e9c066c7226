package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestKeyPayload(t *testing.T) {
	k := NewKey("turn.roll", -100)
	assert.Equal(t, "-100", k.Payload())
	assert.Equal(t, "turn.roll:-100", k.String())

	sub := NewKey("onboarding.next", -100).With("board")
	assert.Equal(t, "-100|board", sub.Payload())
	assert.Equal(t, "onboarding.next:-100:board", sub.String())
	assert.True(t, sub.HasPrefix("onboarding."))
	assert.False(t, k.HasPrefix("onboarding."))
}

func TestParseKeyFromRawCallback(t *testing.T) {
	for _, data := range []string{"\fturn.roll|-100", "\\fturn.roll|-100"} {
		k, err := KeyFrom(&tele.Callback{Data: data})
		require.NoError(t, err, data)
		assert.Equal(t, NewKey("turn.roll", -100), k)
	}

	k, err := KeyFrom(&tele.Callback{Data: "\fonboarding.next|-100|deck|x"})
	require.NoError(t, err)
	assert.Equal(t, "deck|x", k.SubKey)
}

func TestParseKeyFromMatchedCallback(t *testing.T) {
	k, err := KeyFrom(&tele.Callback{Unique: "deal.big", Data: "42"})
	require.NoError(t, err)
	assert.Equal(t, NewKey("deal.big", 42), k)
}

func TestParseKeyErrors(t *testing.T) {
	_, err := ParseKey("turn.roll", "")
	require.ErrorIs(t, err, ErrChatIDNotFound)
	_, err = ParseKey("turn.roll", "abc")
	require.ErrorIs(t, err, ErrChatIDNotFound)
	_, err = ParseKey("turn.roll", "0")
	require.ErrorIs(t, err, ErrChatIDNotFound)
	_, err = ParseKey("", "1")
	require.Error(t, err)
	_, err = KeyFrom(nil)
	require.ErrorIs(t, err, ErrChatIDNotFound)
}
