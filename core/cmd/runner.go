// Package cmd is the process entry shared by bot binaries: load config,
// bootstrap, run Telegram until a signal arrives.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m3rciful/cashflowbot/core/buildinfo"
	coreconfig "github.com/m3rciful/cashflowbot/core/config"
	"github.com/m3rciful/cashflowbot/core/logger"
	coretelegram "github.com/m3rciful/cashflowbot/core/telegram"
)

const (
	defaultConfigEnvVar = "CONFIG_PATH"
	defaultConfigPath   = "config.yaml"
)

// ConfigCarrier is an application config embedding the core one.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp produces the options RunTelegram needs.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Options plug the application into Run. LoadConfig and Bootstrap are
// required; the rest default to the real implementations.
type Options struct {
	// ConfigEnvVar names the variable holding the config path; CONFIG_PATH when empty.
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
	// Context replaces the signal-aware root context, mostly for tests.
	Context context.Context
}

func (o Options) configPath() string {
	if p := os.Getenv(cmpOr(o.ConfigEnvVar, defaultConfigEnvVar)); p != "" {
		return p
	}
	return cmpOr(o.DefaultConfigPath, defaultConfigPath)
}

func cmpOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Run loads configuration, bootstraps the app and blocks in the Telegram
// runtime until SIGINT or SIGTERM. A shutdown by signal is not an error.
func Run(opts Options) error {
	switch {
	case opts.LoadConfig == nil:
		return errors.New("cmd: LoadConfig is required")
	case opts.Bootstrap == nil:
		return errors.New("cmd: Bootstrap is required")
	}

	path := opts.configPath()
	log.Printf("cashflowbot %s, config %s", buildinfo.String(), path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: load config: %w", err)
	}
	if cfg == nil || cfg.CoreConfig() == nil {
		return errors.New("cmd: config carries no core section")
	}

	app, err := opts.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap: %w", err)
	}
	shutdown := opts.ShutdownLogger
	if shutdown == nil {
		shutdown = logger.Shutdown
	}
	defer func() {
		if err := shutdown(); err != nil {
			log.Printf("logger shutdown: %v", err)
		}
	}()

	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options: %w", err)
	}
	withLifecycleLogs(&runOpts, time.Now())

	root := opts.Context
	if root == nil {
		root = context.Background()
	}
	ctx, stop := signal.NotifyContext(root, os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	if err := run(ctx, runOpts); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// withLifecycleLogs wraps the app hooks with "ready" and "shutdown" events.
func withLifecycleLogs(o *coretelegram.RunOptions, startedAt time.Time) {
	onStart, onStop := o.OnStart, o.OnStop
	o.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if onStart != nil {
			if err := onStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, "app", "ready",
			slog.String("version", buildinfo.Version),
			slog.String("commit", buildinfo.Commit),
			slog.Duration("startup", logger.Took(startedAt)),
		)
		return nil
	}
	o.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Info(ctx, "app", "shutdown", slog.Duration("uptime", logger.Took(startedAt)))
		if onStop == nil {
			return nil
		}
		return onStop(ctx, rt)
	}
}
