package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
	"github.com/five82/siswa/internal/store/memory"
)

func TestWatched_MutationsAdvanceVersion(t *testing.T) {
	w := store.Watch(memory.New())
	ctx := context.Background()

	v0 := w.Version()
	rec, err := w.Insert(ctx, siswa.Record{Name: "Ani", Address: "Jl. A", Phone: "0812"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if w.Version() != v0+1 {
		t.Fatalf("Version after insert = %d, want %d", w.Version(), v0+1)
	}

	// Failed mutations do not advance the feed.
	if err := w.Update(ctx, siswa.Record{ID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Update(missing) = %v", err)
	}
	if w.Version() != v0+1 {
		t.Fatalf("failed update advanced the version")
	}

	if err := w.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if w.Version() != v0+2 {
		t.Fatalf("Version after delete = %d, want %d", w.Version(), v0+2)
	}
}

func TestWatched_WaitWakesOnChange(t *testing.T) {
	w := store.Watch(memory.New())
	since := w.Version()

	done := make(chan uint64, 1)
	go func() {
		v, err := w.Wait(context.Background(), since)
		if err != nil {
			t.Errorf("Wait: %v", err)
		}
		done <- v
	}()

	select {
	case <-done:
		t.Fatalf("Wait returned before any change")
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := w.Insert(context.Background(), siswa.Record{Name: "Ani", Address: "Jl. A", Phone: "0812"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	select {
	case v := <-done:
		if v <= since {
			t.Fatalf("Wait returned %d, want > %d", v, since)
		}
	case <-time.After(time.Second):
		t.Fatalf("Wait did not wake up")
	}
}

func TestWatched_WaitHonoursContext(t *testing.T) {
	w := store.Watch(memory.New())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := w.Wait(ctx, w.Version()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait = %v, want deadline exceeded", err)
	}
	if v, err := w.Wait(context.Background(), 0); err != nil || v != w.Version() {
		t.Fatalf("Wait(0) = %d, %v; want immediate current version", v, err)
	}
}
