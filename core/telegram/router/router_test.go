package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
)

type fakeContext struct {
	tele.Context
	chat    *tele.Chat
	sender  *tele.User
	update  tele.Update
	store   map[string]any
	answers []string
}

func callbackContext(chatID int64, data string) *fakeContext {
	return &fakeContext{
		chat:   &tele.Chat{ID: chatID},
		sender: &tele.User{ID: 7, Username: "alice"},
		update: tele.Update{ID: 10, Callback: &tele.Callback{ID: "cb-1", Data: data, Message: &tele.Message{ID: 55}}},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Chat() *tele.Chat           { return f.chat }
func (f *fakeContext) Sender() *tele.User         { return f.sender }
func (f *fakeContext) Update() tele.Update        { return f.update }
func (f *fakeContext) Callback() *tele.Callback   { return f.update.Callback }
func (f *fakeContext) Message() *tele.Message     { return f.update.Message }
func (f *fakeContext) Get(key string) interface{} { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}
func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	text := ""
	if len(resp) > 0 && resp[0] != nil {
		text = resp[0].Text
	}
	f.answers = append(f.answers, text)
	return nil
}

func TestCallbackRouteDispatchesInstalledHandler(t *testing.T) {
	reg := tg.NewRegistry()
	var got tg.Update
	require.NoError(t, reg.Install(callbacks.NewKey("onboarding.next", -100).With("deck"), func(_ context.Context, u tg.Update) error {
		got = u
		return nil
	}))

	route := CallbackRoute(reg, CallbackOptions{})
	c := callbackContext(-100, "\fonboarding.next|-100|deck")
	require.NoError(t, route.Handler(c))

	assert.Equal(t, int64(-100), got.ChatID)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "cb-1", got.CallbackID)
	assert.Equal(t, 55, got.MessageID)
	assert.Equal(t, "deck", got.Payload)
	assert.Empty(t, c.answers, "the handler answers on its own")
}

func TestCallbackRouteInactiveButton(t *testing.T) {
	reg := tg.NewRegistry()
	route := CallbackRoute(reg, CallbackOptions{})

	c := callbackContext(-100, "\fturn.roll|-100")
	require.NoError(t, route.Handler(c))
	assert.Equal(t, []string{DefaultInactiveText}, c.answers)
}

func TestCallbackRouteRejectsForeignChat(t *testing.T) {
	reg := tg.NewRegistry()
	called := false
	require.NoError(t, reg.Install(callbacks.NewKey("turn.roll", -100), func(context.Context, tg.Update) error {
		called = true
		return nil
	}))
	route := CallbackRoute(reg, CallbackOptions{InactiveText: "gone"})

	c := callbackContext(-200, "\fturn.roll|-100")
	require.NoError(t, route.Handler(c))
	assert.False(t, called)
	assert.Equal(t, []string{"gone"}, c.answers)
}

func TestCallbackRouteMalformedData(t *testing.T) {
	route := CallbackRoute(tg.NewRegistry(), CallbackOptions{})
	c := callbackContext(-100, "\fturn.roll")
	require.NoError(t, route.Handler(c))
	assert.Equal(t, []string{""}, c.answers)
}

func TestChatCommandRoute(t *testing.T) {
	reg := tg.NewRegistry()
	route := ChatCommandRoute(reg, "/kick", "kick")
	assert.Equal(t, "/kick", route.Endpoint)

	c := &fakeContext{
		chat:   &tele.Chat{ID: -100},
		sender: &tele.User{ID: 1, Username: "admin"},
		update: tele.Update{ID: 11, Message: &tele.Message{ID: 3, Payload: " @bob "}},
		store:  map[string]any{},
	}
	require.NoError(t, route.Handler(c), "no handler installed is a no-op")

	var payload string
	require.NoError(t, reg.Install(callbacks.NewKey("kick", -100), func(_ context.Context, u tg.Update) error {
		payload = u.Payload
		return nil
	}))
	require.NoError(t, route.Handler(c))
	assert.Equal(t, "@bob", payload)
}

type codedErr struct{}

func (codedErr) Error() string { return "not your turn" }
func (codedErr) Code() string  { return "not your turn" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestErrorCodeAndHandlerName(t *testing.T) {
	assert.Equal(t, "NOT_YOUR_TURN", errorCode(fmt.Errorf("wrap: %w", codedErr{})))
	assert.Equal(t, "PLAINERR", errorCode(&plainErr{}))
	assert.Equal(t, "ERRORSTRING", errorCode(errors.New("flat")))
	assert.Equal(t, "play", handlerName(" /Play "))
	assert.Equal(t, "unknown", handlerName("/"))
}
