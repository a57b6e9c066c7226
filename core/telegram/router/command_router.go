package router

import (
	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/cashflowbot/core/telegram/helpers"
	"github.com/m3rciful/cashflowbot/core/telegram/middleware"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares global command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := handlerName(cmd)
		inner := def.Handler
		h := func(c tele.Context) error {
			return newSummary(name).run(c, func() error { return inner(c) })
		}
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{Endpoint: cmd, Handler: h})
		for _, alias := range def.Aliases {
			routes = append(routes, tg.Route{Endpoint: "/" + handlerName(alias), Handler: h})
		}
	}

	logger.Info(logger.Background(), "tg.wire", "complete",
		slog.Int("commands", len(reg.Commands())),
	)

	return routes
}

// ChatCommandRoute routes a command to the handler installed for the
// calling chat under action. Chats without one ignore the command.
func ChatCommandRoute(reg *tg.Registry, command, action string) tg.Route {
	name := handlerName(command)
	return tg.Route{
		Endpoint: command,
		Handler: func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return nil
			}
			key := callbacks.NewKey(action, chat.ID)
			h, ok := reg.Lookup(key)
			if !ok {
				newSummary(name).skipped("not_installed").log(c, nil)
				return nil
			}
			return newSummary(name, slog.String("cb_key", key.String())).run(c, func() error {
				return h(tghelpers.BuildContext(c), tg.UpdateFrom(c))
			})
		},
	}
}
