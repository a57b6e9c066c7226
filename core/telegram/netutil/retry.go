// Package netutil decides which Bot API failures are transient.
package netutil

import (
	"errors"
	"net"
	"time"

	tele "gopkg.in/telebot.v4"
)

// ShouldRetry reports whether err is transient: a flood limit, a 5xx from
// the Bot API, a timeout or a failed dial. Wrapped errors, including
// *url.Error from net/http, are unwrapped.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := floodOf(err); ok {
		return true
	}
	if apiErr := (*tele.Error)(nil); errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.Code >= 500
	}
	if netErr := net.Error(nil); errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	opErr := (*net.OpError)(nil)
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// RetryAfter returns the wait Telegram asked for in a flood error, or 0.
func RetryAfter(err error) time.Duration {
	if flood, ok := floodOf(err); ok && flood.RetryAfter > 0 {
		return time.Duration(flood.RetryAfter) * time.Second
	}
	return 0
}

func floodOf(err error) (tele.FloodError, bool) {
	var flood tele.FloodError
	ok := errors.As(err, &flood)
	return flood, ok
}
