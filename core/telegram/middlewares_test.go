package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
)

func chainNames(mws []Middleware) []string {
	names := make([]string, 0, len(mws))
	for _, mw := range mws {
		names = append(names, mw.Name)
	}
	return names
}

func TestDefaultMiddlewaresOrder(t *testing.T) {
	cfg := &coreconfig.Config{}
	cfg.RateLimit.IntervalMS = 300

	got := chainNames(DefaultMiddlewares(cfg, nil, func(int64) {}))
	assert.Equal(t, []string{"recover", "logger", "chat_activity", "rate_limit", "metrics"}, got)

	got = chainNames(DefaultMiddlewares(&coreconfig.Config{}, nil, nil))
	assert.Equal(t, []string{"recover", "logger", "metrics"}, got)
}
