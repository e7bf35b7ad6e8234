package store

import (
	"context"
	"sync"

	"github.com/five82/siswa/internal/siswa"
)

// Watched decorates a Store with a change feed. Every successful mutation
// advances Version and wakes everyone blocked in Wait.
type Watched struct {
	Store

	mu      sync.Mutex
	version uint64
	changed chan struct{}
}

// Watch wraps s. The version starts at 1 so a zero "since" always returns.
func Watch(s Store) *Watched {
	return &Watched{Store: s, version: 1, changed: make(chan struct{})}
}

// Version returns the current change counter.
func (w *Watched) Version() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.version
}

// Wait blocks until the version is greater than since or ctx ends.
func (w *Watched) Wait(ctx context.Context, since uint64) (uint64, error) {
	for {
		w.mu.Lock()
		version, changed := w.version, w.changed
		w.mu.Unlock()

		if version > since {
			return version, nil
		}
		select {
		case <-ctx.Done():
			return version, ctx.Err()
		case <-changed:
		}
	}
}

func (w *Watched) bump() {
	w.mu.Lock()
	w.version++
	close(w.changed)
	w.changed = make(chan struct{})
	w.mu.Unlock()
}

func (w *Watched) Insert(ctx context.Context, rec siswa.Record) (siswa.Record, error) {
	stored, err := w.Store.Insert(ctx, rec)
	if err != nil {
		return siswa.Record{}, err
	}
	w.bump()
	return stored, nil
}

func (w *Watched) Update(ctx context.Context, rec siswa.Record) error {
	if err := w.Store.Update(ctx, rec); err != nil {
		return err
	}
	w.bump()
	return nil
}

func (w *Watched) Delete(ctx context.Context, id string) error {
	if err := w.Store.Delete(ctx, id); err != nil {
		return err
	}
	w.bump()
	return nil
}
