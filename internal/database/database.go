// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql; mattn/go-sqlite3 serves single-node installs and
// local development.
//
// Public entry points:
//
//	Open(ctx, driver, dsn)                 – helper with conservative pool sizes.
//	OpenWithOptions(ctx, driver, dsn, opt) – fine-grained control plus retries.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Options tunes the pool and the connect-retry loop.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra Ping attempts after the first
	RetryBackoff    time.Duration // doubled after every failed attempt
}

// DefaultOptions: 15 max open, 5 idle, 30-minute lifetime, two retries.
var DefaultOptions = Options{
	MaxOpenConns:    15,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
	Retries:         2,
	RetryBackoff:    500 * time.Millisecond,
}

// Open returns a *sqlx.DB using DefaultOptions.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, driver, dsn, DefaultOptions)
}

// OpenWithOptions opens driver/dsn, applies pool limits, and pings until the
// server answers or the retry budget is spent.
func OpenWithOptions(ctx context.Context, driver, dsn string, opt Options) (*sqlx.DB, error) {
	dsn, err := prepareDSN(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// One writer at a time avoids SQLITE_BUSY under concurrent upserts.
		opt.MaxOpenConns, opt.MaxIdleConns = 1, 1
	}
	db.SetMaxOpenConns(opt.MaxOpenConns)
	db.SetMaxIdleConns(opt.MaxIdleConns)
	db.SetConnMaxLifetime(opt.ConnMaxLifetime)

	backoff := opt.RetryBackoff
	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opt.Retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	_ = db.Close()
	return nil, fmt.Errorf("database ping (%s): %w", driver, err)
}

// prepareDSN forces the MySQL options the country store depends on:
// parseTime for TIMESTAMP scanning and UTC for stable comparisons.
func prepareDSN(driver, dsn string) (string, error) {
	switch driver {
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return cfg.FormatDSN(), nil
	case DriverSQLite:
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// UniqueViolation reports whether err is a duplicate-key failure from either
// driver.  The returned message is the driver text, which names the index
// or column that collided.
func UniqueViolation(err error) (msg string, ok bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return me.Message, true
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return se.Error(), true
	}
	return "", false
}
