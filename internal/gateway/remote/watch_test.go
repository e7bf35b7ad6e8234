package remote

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/siswa/internal/api"
	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/siswa"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		base     time.Duration
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second, 2 * time.Second},
		{"one failure", 1, 2 * time.Second, 4 * time.Second},
		{"two failures", 2, 2 * time.Second, 8 * time.Second},
		{"three failures", 3, 2 * time.Second, 16 * time.Second},
		{"capped", 4, 2 * time.Second, maxBackoff},
		{"many failures", 100, 2 * time.Second, maxBackoff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateBackoff(tt.failures, tt.base); got != tt.want {
				t.Fatalf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, tt.base, got, tt.want)
			}
		})
	}
}

// fakeFeed is a minimal long-poll server: version moves on set, polls with an
// up-to-date cursor wait until the next change or the requested timeout.
type fakeFeed struct {
	mu      sync.Mutex
	version uint64
	items   []siswa.Record
	changed chan struct{}
	failing atomic.Bool
}

func newFakeFeed(items ...siswa.Record) *fakeFeed {
	return &fakeFeed{version: 1, items: items, changed: make(chan struct{})}
}

func (f *fakeFeed) set(items ...siswa.Record) {
	f.mu.Lock()
	f.version++
	f.items = items
	close(f.changed)
	f.changed = make(chan struct{})
	f.mu.Unlock()
}

func (f *fakeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.failing.Load() {
		writeJSON(w, http.StatusInternalServerError, api.ErrorEnvelope{Error: api.ErrorBody{Code: api.CodeInternal, Message: "boom"}})
		return
	}
	since, _ := strconv.ParseUint(r.URL.Query().Get(api.ParamSince), 10, 64)
	waitMS, _ := strconv.Atoi(r.URL.Query().Get(api.ParamWaitMS))

	f.mu.Lock()
	version, changed := f.version, f.changed
	f.mu.Unlock()
	if since > 0 && since >= version {
		select {
		case <-changed:
		case <-time.After(time.Duration(waitMS) * time.Millisecond):
		case <-r.Context().Done():
			return
		}
	}
	f.mu.Lock()
	resp := api.ListResponse{Version: f.version, Items: append([]siswa.Record(nil), f.items...)}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func recv(t *testing.T, ch <-chan gateway.Snapshot) gateway.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return gateway.Snapshot{}
}

func TestSubscribeAll_DeliversChanges(t *testing.T) {
	feed := newFakeFeed(siswa.Record{ID: "a", Name: "A"})
	c := newTestClient(t, feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snaps, err := c.SubscribeAll(ctx)
	if err != nil {
		t.Fatalf("SubscribeAll returned error: %v", err)
	}

	first := recv(t, snaps)
	if first.Err != nil || len(first.Records) != 1 || first.Version != 1 {
		t.Fatalf("first snapshot = %+v", first)
	}

	feed.set(siswa.Record{ID: "a", Name: "A"}, siswa.Record{ID: "b", Name: "B"})
	second := recv(t, snaps)
	if second.Err != nil || len(second.Records) != 2 {
		t.Fatalf("second snapshot = %+v", second)
	}
	if second.Version <= first.Version {
		t.Fatalf("version did not increase: %d then %d", first.Version, second.Version)
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-snaps:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription not closed after cancel")
		}
	}
}

func TestSubscribeAll_InitialFailure(t *testing.T) {
	feed := newFakeFeed()
	feed.failing.Store(true)
	c := newTestClient(t, feed)

	if _, err := c.SubscribeAll(context.Background()); err == nil {
		t.Fatal("expected initial connection error")
	}
}

func TestSubscribeAll_FailureTickThenRecovery(t *testing.T) {
	feed := newFakeFeed(siswa.Record{ID: "a"})
	c := newTestClient(t, feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snaps, err := c.SubscribeAll(ctx)
	if err != nil {
		t.Fatalf("SubscribeAll returned error: %v", err)
	}
	recv(t, snaps)

	feed.failing.Store(true)
	tick := recv(t, snaps)
	if tick.Err == nil {
		t.Fatalf("expected failure tick, got %+v", tick)
	}

	feed.failing.Store(false)
	for {
		snap := recv(t, snaps)
		if snap.Err == nil {
			if len(snap.Records) != 1 {
				t.Fatalf("recovered snapshot = %+v", snap)
			}
			if snap.Version <= tick.Version {
				t.Fatalf("recovered version %d not after failure version %d", snap.Version, tick.Version)
			}
			return
		}
	}
}
