// Package bootstrap brings up the infrastructure shared by every run:
// logging first, then the optional journal database.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/cashflowbot/core/config"
	coredatabase "github.com/m3rciful/cashflowbot/core/database"
	"github.com/m3rciful/cashflowbot/core/logger"
)

// Options control the bootstrap pipeline. Nil hooks use the real
// implementations.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

func (o Options) withDefaults() Options {
	if o.LoggerInit == nil {
		o.LoggerInit = logger.InitLogger
	}
	if o.Connect == nil {
		o.Connect = coredatabase.Connect
	}
	if o.Migrate == nil {
		o.Migrate = coredatabase.RunMigrations
	}
	return o
}

// Result carries what the pipeline opened. DB stays nil without a database host.
type Result struct {
	DB *sqlx.DB
}

// Run initialises the logger, then connects and migrates when a database
// host is configured. A failed migration closes the connection it opened.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config")
	}
	opts = opts.withDefaults()

	if err := opts.LoggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger: %w", err)
	}
	res := &Result{}
	if !opts.Database.Enabled() {
		return res, nil
	}

	db, err := opts.Connect(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database: %w", err)
	}
	if err := opts.Migrate(opts.Database); err != nil {
		return nil, errors.Join(fmt.Errorf("bootstrap: migrations: %w", err), db.Close())
	}
	res.DB = db
	return res, nil
}
