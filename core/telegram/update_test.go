package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "bob", DisplayName(&tele.User{Username: "bob", FirstName: "Robert"}))
	assert.Equal(t, "Robert Smith", DisplayName(&tele.User{FirstName: "Robert", LastName: "Smith"}))
	assert.Equal(t, "player", DisplayName(&tele.User{}))
	assert.Empty(t, DisplayName(nil))
}
