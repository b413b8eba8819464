// internal/app/app.go
//
// Service bootstrap shared by cmd/web and cmd/fetchcountries.
//
// Context
// -------
// Build turns a loaded *config.Config into the running object graph:
//
//  1. Open the Record Store.  `memory` keeps everything in process; `mysql`
//     and `sqlite3` open a pooled *sqlx.DB and run the idempotent schema.
//  2. Wrap the store in the Query Engine.
//  3. Build the Synchronizer against the configured upstream.
//  4. Seed the countries_records gauge with the current row count.
//
// Both binaries call Build and defer Close; neither touches the database
// package directly.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/countries/internal/config"
	"github.com/yanizio/countries/internal/country"
	"github.com/yanizio/countries/internal/database"
	"github.com/yanizio/countries/internal/metrics"
	"github.com/yanizio/countries/internal/synchronizer"
)

// DriverMemory selects the in-process store.
const DriverMemory = "memory"

// App is the wired service graph.
type App struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	DB     *sqlx.DB // nil for the memory driver
	Store  country.Store
	Engine *country.Engine
	Sync   *synchronizer.Synchronizer
}

// Build opens the store and wires the engine and synchronizer.
func Build(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = zap.S()
	}
	a := &App{Config: cfg, Log: log}

	switch cfg.Database.Driver {
	case DriverMemory:
		a.Store = country.NewMemoryStore(nil)
		log.Warnw("using in-memory store; data is lost on exit")
	case database.DriverMySQL, database.DriverSQLite:
		db, err := database.OpenWithOptions(ctx, cfg.Database.Driver, cfg.Database.DSN, dbOptions(cfg.Database))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := database.Migrate(ctx, db, country.Schema(cfg.Database.Driver)); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.DB = db
		a.Store = country.NewSQLStore(db, nil)
		log.Infow("database online", "driver", cfg.Database.Driver)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	a.Engine = country.NewEngine(a.Store)
	a.Sync = synchronizer.New(a.Store, synchronizer.Options{
		URL:     cfg.Upstream.URL,
		Timeout: cfg.Upstream.Timeout,
		Retries: cfg.Upstream.Retries,
		Workers: cfg.Upstream.Workers,
	}, log.Named("sync"))

	n, err := a.Store.Count(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	metrics.Records.Set(float64(n))
	log.Infow("store ready", "records", n)
	return a, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// dbOptions overlays configured pool settings on the package defaults.
func dbOptions(c config.Database) database.Options {
	opt := database.DefaultOptions
	if c.MaxOpenConns > 0 {
		opt.MaxOpenConns = c.MaxOpenConns
	}
	if c.MaxIdleConns > 0 {
		opt.MaxIdleConns = c.MaxIdleConns
	}
	opt.Retries = c.Retries
	if c.RetryBackoff > 0 {
		opt.RetryBackoff = c.RetryBackoff
	}
	return opt
}
