package country

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tick returns a clock that advances one second per call.
func tick() Clock {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryStore_UpsertCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(tick())

	rec := Record{Name: "Peru", CCA3: "per", CCA2: "pe"}
	created, err := s.Upsert(ctx, &rec)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), rec.ID)
	firstCreated := rec.CreatedAt

	again := Record{Name: "Republic of Peru", CCA3: "PER", CCA2: "PE", Population: 33}
	created, err = s.Upsert(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), again.ID)

	got, err := s.GetByCCA3(ctx, "PER")
	require.NoError(t, err)
	assert.Equal(t, "Republic of Peru", got.Name)
	assert.Equal(t, int64(33), got.Population)
	assert.Equal(t, firstCreated, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	n, _ := s.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)

	require.NoError(t, s.Create(ctx, &Record{CCA3: "AAA", CCA2: "AA"}))

	err := s.Create(ctx, &Record{CCA3: "AAA"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cca3", ve.Field)

	err = s.Create(ctx, &Record{CCA3: "BBB", CCA2: "aa"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "cca2", ve.Field)

	// Records without cca2 never collide.
	require.NoError(t, s.Create(ctx, &Record{CCA3: "CCC"}))
	require.NoError(t, s.Create(ctx, &Record{CCA3: "DDD"}))
}

func TestMemoryStore_UpdateRules(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)

	a := Record{CCA3: "AAA", CCA2: "AA"}
	b := Record{CCA3: "BBB", CCA2: "BB"}
	require.NoError(t, s.Create(ctx, &a))
	require.NoError(t, s.Create(ctx, &b))

	// cca3 is immutable.
	err := s.Update(ctx, &Record{ID: a.ID, CCA3: "ZZZ"})
	assert.ErrorIs(t, err, ErrValidation)

	// cca2 may move to a free code, freeing the old one.
	require.NoError(t, s.Update(ctx, &Record{ID: a.ID, CCA3: "AAA", CCA2: "AX"}))
	_, err = s.GetByCCA2(ctx, "AA")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Update(ctx, &Record{ID: b.ID, CCA3: "BBB", CCA2: "AA"}))

	// But not onto a taken one.
	err = s.Update(ctx, &Record{ID: b.ID, CCA3: "BBB", CCA2: "AX"})
	assert.ErrorIs(t, err, ErrValidation)

	err = s.Update(ctx, &Record{ID: 99, CCA3: "QQQ"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateKeepsRawData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)

	rec := Record{Name: "France", CCA3: "FRA", RawData: RawJSON(`{"source":"upstream"}`)}
	_, err := s.Upsert(ctx, &rec)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, &Record{ID: rec.ID, Name: "République française", CCA3: "FRA"}))
	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "République française", got.Name)
	assert.JSONEq(t, `{"source":"upstream"}`, string(got.RawData))

	// An explicit payload still replaces it.
	require.NoError(t, s.Update(ctx, &Record{ID: rec.ID, CCA3: "FRA", RawData: RawJSON(`{"v":2}`)}))
	got, err = s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got.RawData))
}

func TestMemoryStore_DeleteAndIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)

	rec := Record{CCA3: "AAA", CCA2: "AA", Borders: StringList{"BBB"}}
	require.NoError(t, s.Create(ctx, &rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	got.Borders[0] = "XXX"

	again, _ := s.Get(ctx, rec.ID)
	assert.Equal(t, "BBB", again.Borders[0], "callers must not alias stored state")

	require.NoError(t, s.Delete(ctx, rec.ID))
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), ErrNotFound)
	_, err = s.GetByCCA2(ctx, "AA")
	assert.ErrorIs(t, err, ErrNotFound)

	// The code is free again after delete.
	require.NoError(t, s.Create(ctx, &Record{CCA3: "AAA", CCA2: "AA"}))
}

func TestMemoryStore_ListInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	for _, code := range []string{"CCC", "AAA", "BBB"} {
		require.NoError(t, s.Create(ctx, &Record{CCA3: code}))
	}
	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "CCC", all[0].CCA3)
	assert.Equal(t, "BBB", all[2].CCA3)
}
