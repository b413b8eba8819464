package country

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps records in process memory.  Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Record
	byCCA3 map[string]int64
	byCCA2 map[string]int64
	now    Clock
}

// NewMemoryStore returns an empty store.  A nil clock uses UTC wall time.
func NewMemoryStore(now Clock) *MemoryStore {
	if now == nil {
		now = systemClock
	}
	return &MemoryStore{
		rows:   make(map[int64]Record),
		byCCA3: make(map[string]int64),
		byCCA2: make(map[string]int64),
		now:    now,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.rows))
	for id := int64(1); id <= s.nextID; id++ {
		if rec, ok := s.rows[id]; ok {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rows[id]
	if !ok {
		return nil, notFound("id", id)
	}
	c := clone(rec)
	return &c, nil
}

func (s *MemoryStore) GetByCCA3(ctx context.Context, cca3 string) (*Record, error) {
	s.mu.RLock()
	id, ok := s.byCCA3[strings.ToUpper(cca3)]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound("cca3", cca3)
	}
	return s.Get(ctx, id)
}

func (s *MemoryStore) GetByCCA2(ctx context.Context, cca2 string) (*Record, error) {
	s.mu.RLock()
	id, ok := s.byCCA2[strings.ToUpper(cca2)]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound("cca2", cca2)
	}
	return s.Get(ctx, id)
}

func (s *MemoryStore) Create(_ context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(rec)
}

func (s *MemoryStore) Update(_ context.Context, rec *Record) error {
	keepRaw := len(rec.RawData) == 0
	if err := prepare(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.rows[rec.ID]; ok && keepRaw {
		rec.RawData = append(RawJSON(nil), old.RawData...)
	}
	return s.updateLocked(rec)
}

func (s *MemoryStore) Upsert(_ context.Context, rec *Record) (bool, error) {
	if err := prepare(rec); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byCCA3[rec.CCA3]; ok {
		rec.ID = id
		return false, s.updateLocked(rec)
	}
	return true, s.insertLocked(rec)
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[id]
	if !ok {
		return notFound("id", id)
	}
	delete(s.rows, id)
	delete(s.byCCA3, rec.CCA3)
	if rec.CCA2 != "" {
		delete(s.byCCA2, rec.CCA2)
	}
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (s *MemoryStore) insertLocked(rec *Record) error {
	if _, taken := s.byCCA3[rec.CCA3]; taken {
		return &ValidationError{Field: "cca3", Reason: "unique"}
	}
	if rec.CCA2 != "" {
		if _, taken := s.byCCA2[rec.CCA2]; taken {
			return &ValidationError{Field: "cca2", Reason: "unique"}
		}
	}

	s.nextID++
	now := s.now()
	rec.ID = s.nextID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.rows[rec.ID] = clone(*rec)
	s.byCCA3[rec.CCA3] = rec.ID
	if rec.CCA2 != "" {
		s.byCCA2[rec.CCA2] = rec.ID
	}
	return nil
}

func (s *MemoryStore) updateLocked(rec *Record) error {
	old, ok := s.rows[rec.ID]
	if !ok {
		return notFound("id", rec.ID)
	}
	if old.CCA3 != rec.CCA3 {
		return &ValidationError{Field: "cca3", Reason: "immutable"}
	}
	if rec.CCA2 != "" {
		if id, taken := s.byCCA2[rec.CCA2]; taken && id != rec.ID {
			return &ValidationError{Field: "cca2", Reason: "unique"}
		}
	}

	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = s.now()

	if old.CCA2 != "" {
		delete(s.byCCA2, old.CCA2)
	}
	s.rows[rec.ID] = clone(*rec)
	if rec.CCA2 != "" {
		s.byCCA2[rec.CCA2] = rec.ID
	}
	return nil
}

// clone deep-copies the collection fields so callers never alias stored
// state.
func clone(r Record) Record {
	out := r
	out.Languages = make(StringMap, len(r.Languages))
	for k, v := range r.Languages {
		out.Languages[k] = v
	}
	out.Currencies = make(CurrencyMap, len(r.Currencies))
	for k, v := range r.Currencies {
		out.Currencies[k] = v
	}
	out.Timezones = append(StringList{}, r.Timezones...)
	out.Capitals = append(StringList{}, r.Capitals...)
	out.Borders = append(StringList{}, r.Borders...)
	out.RawData = append(RawJSON(nil), r.RawData...)
	return out
}
