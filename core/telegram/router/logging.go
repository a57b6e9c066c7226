package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"
	"github.com/m3rciful/cashflowbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summary describes the handler.handled line written for every routed update.
type summary struct {
	handler string
	start   time.Time
	// status and outcome override the values derived from the handler error.
	status  string
	outcome string
	attrs   []slog.Attr
}

func newSummary(handler string, attrs ...slog.Attr) summary {
	return summary{handler: handler, start: time.Now(), attrs: attrs}
}

func (s summary) skipped(reason string) summary {
	s.status, s.outcome = "skip", "ok"
	s.attrs = append(s.attrs, slog.String("reason", reason))
	return s
}

// run names the handler in the update context, calls fn and logs the summary.
func (s summary) run(c tele.Context, fn func() error) error {
	tghelpers.WithHandler(c, s.handler)
	err := fn()
	s.log(c, err)
	return err
}

func (s summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.handler)
	msgs, kb := middleware.GetCounters(c)

	result := "ok"
	if err != nil {
		result = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", cmpOr(s.status, result)),
		slog.String("outcome", cmpOr(s.outcome, result)),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(s.start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	logger.Info(ctx, "tg", "handler.handled", append(attrs, s.attrs...)...)
}

func cmpOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// handlerName turns a command or action into a log friendly name.
func handlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// errorCode prefers an explicit Code() and falls back to the error type name.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
