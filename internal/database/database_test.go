package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareDSN_MySQLForcesParseTimeAndUTC(t *testing.T) {
	out, err := prepareDSN(DriverMySQL, "u:p@tcp(db:3306)/countries?loc=Local")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
	assert.Equal(t, "countries", cfg.DBName)
}

func TestPrepareDSN_Errors(t *testing.T) {
	_, err := prepareDSN("postgres", "x")
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = prepareDSN(DriverMySQL, "u:p@tcp(db:3306)countries")
	assert.ErrorContains(t, err, "parse mysql dsn")

	out, err := prepareDSN(DriverSQLite, "file:x.db")
	require.NoError(t, err)
	assert.Equal(t, "file:x.db", out)
}

func TestOpenWithOptions_SQLite(t *testing.T) {
	db, err := OpenWithOptions(context.Background(), DriverSQLite, ":memory:", DefaultOptions)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestUniqueViolation(t *testing.T) {
	msg, ok := UniqueViolation(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'PRT' for key 'cca3'"}))
	assert.True(t, ok)
	assert.Contains(t, msg, "cca3")

	_, ok = UniqueViolation(&mysql.MySQLError{Number: 1213, Message: "deadlock"})
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}

func TestUniqueViolation_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db, []string{`CREATE TABLE t (code TEXT NOT NULL UNIQUE)`}))
	_, err = db.ExecContext(ctx, `INSERT INTO t (code) VALUES ('PRT')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO t (code) VALUES ('PRT')`)
	require.Error(t, err)

	msg, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "t.code")
}

func TestMigrate(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec("CREATE TABLE a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX b").WillReturnError(errors.New("syntax"))

	err = Migrate(context.Background(), db, []string{
		"CREATE TABLE a (x INT)",
		"CREATE INDEX b ON a (x)",
		"CREATE TABLE never (y INT)",
	})
	assert.ErrorContains(t, err, "migration 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}
