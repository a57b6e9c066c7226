// Package app wires the Cashflow bot: configuration, infrastructure,
// the session manager and the Telegram routes.
package app

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/cashflowbot/bot"
	"github.com/m3rciful/cashflowbot/core/bootstrap"
	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/router"
	tgsender "github.com/m3rciful/cashflowbot/core/telegram/sender"
	"github.com/m3rciful/cashflowbot/game"
	"github.com/m3rciful/cashflowbot/journal"
	"github.com/m3rciful/cashflowbot/render"
	"log/slog"
)

// App holds the long-lived components of a running bot.
type App struct {
	cfg *Config
	db  *sqlx.DB

	registry   *tg.Registry
	transport  *tg.Transport
	dispatcher *tgsender.Dispatcher
	manager    *bot.Manager
}

// Bootstrap initialises logging and the optional database, then builds the App.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, res.DB), nil
}

// New builds the App. A nil db keeps the journal in memory.
func New(cfg *Config, db *sqlx.DB) *App {
	a := &App{
		cfg:        cfg,
		db:         db,
		registry:   tg.NewRegistry(),
		transport:  tg.NewTransport(),
		dispatcher: tgsender.NewDispatcher(tgsender.Options{MaxRetries: 2}),
	}

	var events journal.Journal = journal.NewMemory(cfg.Journal.MemoryLimit)
	store := "memory"
	if db != nil {
		events = journal.NewSQL(db)
		store = "postgres"
	}

	a.manager = bot.New(a.transport, a.registry, bot.Options{
		SessionTimeout: cfg.Game.SessionTimeout(),
		RollSettle:     cfg.Game.RollSettle(),
		DiceCleanup:    cfg.Game.DiceCleanup(),
		HistoryLimit:   cfg.Journal.HistoryLimit,
		Boards:         render.NewMapDrawer(cfg.Game.BoardImage, game.DefaultBoard().Len(), cfg.Game.MarkerRadius),
		Cards:          render.NewCardDrawer(cfg.Game.ProfessionsDir),
		Journal:        events,
		Scheduler:      a.dispatcher,
	})
	a.manager.RegisterCommands(a.registry)

	logger.Info(logger.Background(), "session", "app.built",
		slog.String("journal", store),
		slog.Duration("session_timeout", cfg.Game.SessionTimeout()),
		slog.Bool("board_image", cfg.Game.BoardImage != ""),
	)
	return a
}

// Manager returns the session manager.
func (a *App) Manager() *bot.Manager {
	return a.manager
}

// TelegramRunOptions assembles the runtime: middlewares, global commands,
// chat-scoped /kick and /finish and the callback route.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes,
		router.ChatCommandRoute(a.registry, "/kick", bot.ActionKick),
		router.ChatCommandRoute(a.registry, "/finish", bot.ActionFinish),
		router.CallbackRoute(a.registry, router.CallbackOptions{}),
	)

	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    a.registry,
		Dispatcher:  a.dispatcher,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Config, nil, a.manager.Touch),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.transport.Bind(rt.Bot)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			a.manager.Stop()
			a.dispatcher.Close()
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}, nil
}
