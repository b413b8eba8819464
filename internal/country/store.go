// internal/country/store.go
//
// Record Store contract.
//
// Context
// -------
// Two implementations satisfy Store:
//
//   - SQLStore: sqlx over MySQL (production) or SQLite (single-node).
//   - MemoryStore: process-local map, used by tests and the `memory` driver.
//
// Every write normalises and validates the record first, then enforces the
// `cca3` and `cca2` uniqueness constraints.  A single write is atomic; there
// is no multi-record transaction.
//
// Notes
// -----
//   - List returns records in insertion (id) order.  Callers that need name
//     order go through the Query Engine.
//   - Lookups of a missing row return an error matching ErrNotFound.
package country

import (
	"context"
	"time"
)

// Store is the persistence contract for country records.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id int64) (*Record, error)
	GetByCCA3(ctx context.Context, cca3 string) (*Record, error)
	GetByCCA2(ctx context.Context, cca2 string) (*Record, error)

	// Create inserts rec and sets its ID and timestamps.
	Create(ctx context.Context, rec *Record) error
	// Update overwrites every mutable field of the row with rec.ID.  The
	// cca3 code is immutable once created.  An empty RawData keeps the
	// stored upstream payload.
	Update(ctx context.Context, rec *Record) error
	// Upsert creates or updates by cca3 and reports whether a row was created.
	Upsert(ctx context.Context, rec *Record) (created bool, err error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Clock returns the current time.  Stores take one so tests can pin
// timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// prepare normalises and validates rec before any write.
func prepare(rec *Record) error {
	rec.Normalize()
	return rec.Validate()
}
