package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/cashflowbot/core/logger"
	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"
)

type fakeContext struct {
	tele.Context
	chat     *tele.Chat
	sender   *tele.User
	update   tele.Update
	store    map[string]any
	answered int
}

func newFakeContext(chatID, userID int64) *fakeContext {
	return &fakeContext{
		chat:   &tele.Chat{ID: chatID},
		sender: &tele.User{ID: userID},
		update: tele.Update{ID: 1, Message: &tele.Message{}},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Chat() *tele.Chat           { return f.chat }
func (f *fakeContext) Sender() *tele.User         { return f.sender }
func (f *fakeContext) Update() tele.Update        { return f.update }
func (f *fakeContext) Callback() *tele.Callback   { return f.update.Callback }
func (f *fakeContext) Get(key string) interface{} { return f.store[key] }
func (f *fakeContext) Set(key string, v interface{}) {
	f.store[key] = v
}
func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.answered++
	return nil
}

func TestChatActivityTouchesChat(t *testing.T) {
	var touched []int64
	h := ChatActivity(func(id int64) { touched = append(touched, id) })(func(tele.Context) error { return nil })

	assert.NoError(t, h(newFakeContext(-100, 1)))
	noChat := newFakeContext(0, 1)
	noChat.chat = nil
	assert.NoError(t, h(noChat))
	assert.Equal(t, []int64{-100}, touched)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	calls, rejects := 0, 0
	next := func(tele.Context) error { calls++; return nil }
	reject := func(tele.Context) error { rejects++; return nil }

	h := AdminOnlyMiddleware(AdminOptions{AdminID: 7, OnReject: reject})(next)
	assert.NoError(t, h(newFakeContext(1, 7)))
	assert.NoError(t, h(newFakeContext(1, 8)))

	open := AdminOnlyMiddleware(AdminOptions{OnReject: reject})(next)
	assert.NoError(t, open(newFakeContext(1, 7)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, rejects)
}

func TestRateLimitMiddleware(t *testing.T) {
	calls, limited := 0, 0
	h := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		Exclude:   map[string]struct{}{"callback": {}},
		OnLimited: func(tele.Context) error { limited++; return nil },
	})(func(tele.Context) error { calls++; return nil })

	assert.NoError(t, h(newFakeContext(1, 5)))
	assert.NoError(t, h(newFakeContext(1, 5)))
	assert.NoError(t, h(newFakeContext(1, 6)))

	cb := newFakeContext(1, 5)
	cb.update = tele.Update{ID: 2, Callback: &tele.Callback{}}
	assert.NoError(t, h(cb))

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, limited)
}

func TestRecoverMiddlewareAnswersCallback(t *testing.T) {
	c := newFakeContext(1, 5)
	c.update = tele.Update{ID: 3, Callback: &tele.Callback{ID: "cb"}}
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	assert.NotPanics(t, func() { _ = h(c) })
	assert.Equal(t, 1, c.answered)
}

func TestMessageMetricsCountsContextAndTransport(t *testing.T) {
	c := newFakeContext(-100, 5)
	c.update = tele.Update{ID: 4, Callback: &tele.Callback{ID: "cb"}}

	var seen *Counters
	h := MessageMetricsMiddleware(func(mc tele.Context) error {
		ctx := tghelpers.BuildContext(mc)
		seen = CountersFrom(ctx)
		CountMessage(ctx, true)
		CountMessage(ctx, false)
		return mc.Respond()
	})
	assert.NoError(t, h(c))

	msgs, kb := GetCounters(c)
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)
	assert.True(t, seen.Answered())
	assert.Equal(t, 1, c.answered)

	var none *Counters
	n, k := none.Snapshot()
	assert.Zero(t, n)
	assert.False(t, k)
	CountMessage(nil, true)
}

func TestLoggerMiddlewareSetsRID(t *testing.T) {
	c := newFakeContext(-100, 7)
	c.update = tele.Update{ID: 12, Message: &tele.Message{Text: "/play"}}
	var rid string
	h := LoggerMiddleware(func(mc tele.Context) error {
		ctx, ok := tghelpers.ContextFrom(mc)
		assert.True(t, ok)
		rid = logger.RIDFrom(ctx)
		return nil
	})
	assert.NoError(t, h(c))
	assert.Equal(t, "12:-100:7", rid)
}

func TestSeenUpdatesExpire(t *testing.T) {
	s := &seenUpdates{ttl: time.Second, seen: map[int]time.Time{}}
	now := time.Now()
	assert.True(t, s.first(1, now))
	assert.False(t, s.first(1, now.Add(500*time.Millisecond)))
	assert.True(t, s.first(1, now.Add(2*time.Second)))
}
