package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
)

func TestBuildPollerLongpoll(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeLongpoll
	p, ok := BuildPoller(cfg).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, coreconfig.DefaultLongPollTimeout, p.Timeout)
	assert.Equal(t, []string{"message", "callback_query"}, p.AllowedUpdates)

	cfg.Telegram.LongPollTimeoutSeconds = 25
	p, ok = BuildPoller(cfg).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 25*time.Second, p.Timeout)
}

func TestBuildPollerWebhook(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.Telegram.RunMode = "WEBHOOK"
	cfg.Telegram.DropPending = true
	cfg.Webhook = coreconfig.WebhookConfig{Listen: "0.0.0.0", Port: 8443, URL: "https://example.org/hook"}

	p, ok := BuildPoller(cfg).(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", p.Listen)
	assert.Equal(t, "https://example.org/hook", p.Endpoint.PublicURL)
	assert.True(t, p.DropUpdates)
}

func TestHTTPClientOutlastsLongPoll(t *testing.T) {
	c := BuildHTTPClient(50 * time.Second)
	assert.Greater(t, c.Timeout, 50*time.Second)
	c = BuildHTTPClient(0)
	assert.Equal(t, defaultClientTimeout, c.Timeout)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRetryTransportReplaysBody(t *testing.T) {
	var bodies []string
	rt := &retryTransport{retries: 3, base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) < 3 {
			return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})}

	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/sendDice", strings.NewReader("chat_id=-100"))
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"chat_id=-100", "chat_id=-100", "chat_id=-100"}, bodies)
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	calls := 0
	boom := errors.New("bad request")
	rt := &retryTransport{retries: 3, base: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, boom
	})}
	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
