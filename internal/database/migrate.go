// internal/database/migrate.go
//
// Minimal forward-only migration runner.
//
// Context
// -------
// Schema statements are idempotent DDL (`CREATE … IF NOT EXISTS`), so the
// runner simply executes each one in order at boot.  There is no version
// table; packages that own tables expose their statements per driver and
// cmd/web passes them in.
//
// Notes
// -----
//   - Statements run outside a transaction because MySQL commits DDL
//     implicitly anyway.
//   - The first failing statement aborts the run and is named in the error.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migrate executes stmts in order.
func Migrate(ctx context.Context, db *sqlx.DB, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	zap.L().Debug("schema migrated", zap.Int("statements", len(stmts)))
	return nil
}
