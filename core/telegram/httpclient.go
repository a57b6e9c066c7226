package telegram

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	"github.com/m3rciful/cashflowbot/core/telegram/netutil"
)

const (
	defaultDialTimeout     = 5 * time.Second
	defaultTLSHandshake    = 5 * time.Second
	defaultIdleConnTimeout = 30 * time.Second
	defaultResponseTimeout = 5 * time.Second
	defaultClientTimeout   = 30 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultRetryAttempts   = 3
	defaultRetryBackoff    = 2 * time.Second
)

// BuildHTTPClient returns the client used for Bot API calls. getUpdates
// holds the request open for up to longPoll, so header and client timeouts
// are stretched past it.
func BuildHTTPClient(longPoll time.Duration) *http.Client {
	headerTimeout := max(defaultResponseTimeout, longPoll+defaultResponseTimeout)
	clientTimeout := max(defaultClientTimeout, longPoll+defaultClientTimeout/3)
	if longPoll <= 0 {
		headerTimeout, clientTimeout = defaultResponseTimeout, defaultClientTimeout
	}

	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   clientTimeout,
		Transport: &retryTransport{base: base, retries: defaultRetryAttempts, backoff: defaultRetryBackoff},
	}
}

// retryTransport repeats requests that failed at the network level. Requests
// whose body cannot be replayed are sent once.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	for attempt := 1; ; attempt++ {
		resp, err := base.RoundTrip(req)
		if err == nil || !replayable || attempt > t.retries || !netutil.ShouldRetry(err) {
			return resp, err
		}
		logger.Debug(req.Context(), "tg.http", "retry",
			slog.String("op", req.URL.Path),
			slog.Int("attempt", attempt),
			slog.String("err", err.Error()),
		)
		if err := sleepCtx(req.Context(), t.backoff*time.Duration(attempt)); err != nil {
			return nil, err
		}
		if req, err = rewind(req); err != nil {
			return nil, err
		}
	}
}

func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		next.Body = body
	}
	return next, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
