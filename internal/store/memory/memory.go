// Package memory is an in-process record store used for offline demos and tests.
package memory

import (
	"context"
	"sync"

	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
)

// Store keeps records in insertion order behind a mutex.
type Store struct {
	mu    sync.RWMutex
	items map[string]siswa.Record
	order []string
}

var _ store.Store = (*Store)(nil)

// New returns a store pre-populated with seed. Seed records without an id get one.
func New(seed ...siswa.Record) *Store {
	s := &Store{items: make(map[string]siswa.Record)}
	for _, rec := range seed {
		rec = rec.Normalized()
		if !rec.HasID() {
			rec.ID = store.NewID()
		}
		s.put(rec)
	}
	return s
}

func (s *Store) put(rec siswa.Record) {
	if _, ok := s.items[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.items[rec.ID] = rec
}

func (s *Store) List(ctx context.Context) ([]siswa.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]siswa.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (siswa.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return siswa.Record{}, false, err
	}
	s.mu.RLock()
	rec, ok := s.items[id]
	s.mu.RUnlock()
	return rec, ok, nil
}

func (s *Store) Insert(ctx context.Context, rec siswa.Record) (siswa.Record, error) {
	if err := ctx.Err(); err != nil {
		return siswa.Record{}, err
	}
	rec = rec.Normalized().WithID(store.NewID())

	s.mu.Lock()
	s.put(rec)
	s.mu.Unlock()
	return rec, nil
}

func (s *Store) Update(ctx context.Context, rec siswa.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec = rec.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[rec.ID]; !ok {
		return store.ErrNotFound
	}
	s.items[rec.ID] = rec
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Close() error { return nil }
