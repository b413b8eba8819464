// internal/country/store_sql.go
//
// sqlx-backed Store.
//
// Context
// -------
// One implementation serves both MySQL and SQLite: every statement uses
// `?` placeholders and portable SQL, and driver-specific duplicate-key
// errors are recognised through database.UniqueViolation.
//
// Workflow
// --------
//   - Reads are single SELECTs against the `country` table.
//   - Upsert runs in its own transaction: look up the id by cca3, then
//     INSERT or UPDATE.  This keeps each record write atomic and tells the
//     caller whether a row was created.
//   - An empty cca2 is written as NULL so the unique index ignores it.
//
// Notes
// -----
//   - Column list in `selectCols` must match the `db` tags on Record.
//   - Oxford commas, two spaces after periods.
package country

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/countries/internal/database"
)

const selectCols = `id, name, official_name, COALESCE(cca2, '') AS cca2, cca3, flag,
       region, subregion, population, languages, timezones, capitals,
       currencies, borders, raw_data, created_at, updated_at`

// SQLStore persists records through sqlx.
type SQLStore struct {
	db  *sqlx.DB
	now Clock
}

// NewSQLStore wraps db.  A nil clock uses UTC wall time.
func NewSQLStore(db *sqlx.DB, now Clock) *SQLStore {
	if now == nil {
		now = systemClock
	}
	return &SQLStore{db: db, now: now}
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	q := `SELECT ` + selectCols + ` FROM country ORDER BY id`
	rows := make([]Record, 0, 256)
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return rows, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (*Record, error) {
	return s.getBy(ctx, "id", id)
}

func (s *SQLStore) GetByCCA3(ctx context.Context, cca3 string) (*Record, error) {
	return s.getBy(ctx, "cca3", strings.ToUpper(cca3))
}

func (s *SQLStore) GetByCCA2(ctx context.Context, cca2 string) (*Record, error) {
	return s.getBy(ctx, "cca2", strings.ToUpper(cca2))
}

func (s *SQLStore) Create(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	return s.insert(ctx, s.db, rec)
}

func (s *SQLStore) Update(ctx context.Context, rec *Record) error {
	keepRaw := len(rec.RawData) == 0
	if err := prepare(rec); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var cur struct {
			CCA3      string    `db:"cca3"`
			RawData   RawJSON   `db:"raw_data"`
			CreatedAt time.Time `db:"created_at"`
		}
		err := tx.GetContext(ctx, &cur,
			`SELECT cca3, raw_data, created_at FROM country WHERE id = ?`, rec.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("id", rec.ID)
		}
		if err != nil {
			return err
		}
		if cur.CCA3 != rec.CCA3 {
			return &ValidationError{Field: "cca3", Reason: "immutable"}
		}
		if keepRaw {
			rec.RawData = cur.RawData
		}
		rec.CreatedAt = cur.CreatedAt
		return s.update(ctx, tx, rec)
	})
}

func (s *SQLStore) Upsert(ctx context.Context, rec *Record) (bool, error) {
	if err := prepare(rec); err != nil {
		return false, err
	}
	var created bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var cur struct {
			ID        int64     `db:"id"`
			CreatedAt time.Time `db:"created_at"`
		}
		err := tx.GetContext(ctx, &cur,
			`SELECT id, created_at FROM country WHERE cca3 = ?`, rec.CCA3)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			created = true
			return s.insert(ctx, tx, rec)
		case err != nil:
			return err
		}
		rec.ID = cur.ID
		rec.CreatedAt = cur.CreatedAt
		return s.update(ctx, tx, rec)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM country WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete country %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("id", id)
	}
	return nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM country`); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return n, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (s *SQLStore) getBy(ctx context.Context, col string, v any) (*Record, error) {
	q := `SELECT ` + selectCols + ` FROM country WHERE ` + col + ` = ? LIMIT 1`
	var rec Record
	err := s.db.GetContext(ctx, &rec, q, v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(col, v)
	}
	if err != nil {
		return nil, fmt.Errorf("get country by %s: %w", col, err)
	}
	return &rec, nil
}

func (s *SQLStore) insert(ctx context.Context, ex sqlx.ExecerContext, rec *Record) error {
	const q = `
        INSERT INTO country (name, official_name, cca2, cca3, flag, region,
                             subregion, population, languages, timezones,
                             capitals, currencies, borders, raw_data,
                             created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := s.now()
	res, err := ex.ExecContext(ctx, q,
		rec.Name, rec.OfficialName, nullable(rec.CCA2), rec.CCA3, rec.Flag,
		rec.Region, rec.Subregion, rec.Population, rec.Languages,
		rec.Timezones, rec.Capitals, rec.Currencies, rec.Borders,
		rec.RawData, now, now)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

func (s *SQLStore) update(ctx context.Context, ex sqlx.ExecerContext, rec *Record) error {
	const q = `
        UPDATE country
           SET name = ?, official_name = ?, cca2 = ?, flag = ?, region = ?,
               subregion = ?, population = ?, languages = ?, timezones = ?,
               capitals = ?, currencies = ?, borders = ?, raw_data = ?,
               updated_at = ?
         WHERE id = ?`

	now := s.now()
	_, err := ex.ExecContext(ctx, q,
		rec.Name, rec.OfficialName, nullable(rec.CCA2), rec.Flag, rec.Region,
		rec.Subregion, rec.Population, rec.Languages, rec.Timezones,
		rec.Capitals, rec.Currencies, rec.Borders, rec.RawData,
		now, rec.ID)
	if err != nil {
		return translate(err)
	}
	rec.UpdatedAt = now
	return nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// translate maps duplicate-key failures onto *ValidationError.
func translate(err error) error {
	msg, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	field := "cca3"
	if strings.Contains(msg, "cca2") {
		field = "cca2"
	}
	return &ValidationError{Field: field, Reason: "unique"}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
