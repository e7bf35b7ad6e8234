package viewsync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/siswa"
)

// fakeGateway is a scripted gateway. Subscriptions receive whatever emit
// sends; GetByID can be gated per id to control completion order.
type fakeGateway struct {
	mu      sync.Mutex
	records map[string]siswa.Record
	nextID  int
	calls   []string

	subscribeErrs []error
	subs          map[chan gateway.Snapshot]struct{}
	version       uint64

	getErr       error
	ignoreCancel bool
	getGates     map[string]chan struct{}
	getStarts    chan string
	insertErr    error
	updateErr    error
	deleteErr    error

	// blockMutations holds Insert, Update and DeleteByID until their
	// context ends.
	blockMutations bool
	mutationStarts chan string
}

func newFakeGateway(records ...siswa.Record) *fakeGateway {
	f := &fakeGateway{
		records:   make(map[string]siswa.Record),
		subs:      make(map[chan gateway.Snapshot]struct{}),
		getGates:  make(map[string]chan struct{}),
		getStarts: make(chan string, 16),
		version:   1,

		mutationStarts: make(chan string, 16),
	}
	for _, rec := range records {
		f.records[rec.ID] = rec
	}
	return f
}

func (f *fakeGateway) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// failNextSubscribe queues err for the next SubscribeAll.
func (f *fakeGateway) failNextSubscribe(err error) {
	f.mu.Lock()
	f.subscribeErrs = append(f.subscribeErrs, err)
	f.mu.Unlock()
}

func (f *fakeGateway) gate(id string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.getGates[id] = ch
	return ch
}

func (f *fakeGateway) snapshotLocked() []siswa.Record {
	out := make([]siswa.Record, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out
}

// emit delivers snap to every live subscription.
func (f *fakeGateway) emit(snap gateway.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		ch <- snap
	}
}

func (f *fakeGateway) SubscribeAll(ctx context.Context) (<-chan gateway.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("subscribe")
	if len(f.subscribeErrs) > 0 {
		err := f.subscribeErrs[0]
		f.subscribeErrs = f.subscribeErrs[1:]
		return nil, err
	}

	ch := make(chan gateway.Snapshot, 16)
	ch <- gateway.Snapshot{Version: f.version, Records: f.snapshotLocked()}
	f.subs[ch] = struct{}{}
	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch, nil
}

func (f *fakeGateway) GetByID(ctx context.Context, id string) (siswa.Record, bool, error) {
	f.mu.Lock()
	f.record("get:" + id)
	gate := f.getGates[id]
	ignoreCancel := f.ignoreCancel
	f.mu.Unlock()

	f.getStarts <- id
	if gate != nil && ignoreCancel {
		<-gate
	} else if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return siswa.Record{}, false, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return siswa.Record{}, false, f.getErr
	}
	rec, ok := f.records[id]
	return rec, ok, nil
}

// block parks a mutation until ctx ends when blockMutations is set. Callers
// hold f.mu; it is released while parked and held again on return.
func (f *fakeGateway) block(ctx context.Context, call string) error {
	if !f.blockMutations {
		return nil
	}
	f.mu.Unlock()
	f.mutationStarts <- call
	<-ctx.Done()
	f.mu.Lock()
	return ctx.Err()
}

func (f *fakeGateway) Insert(ctx context.Context, rec siswa.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert")
	if err := f.block(ctx, "insert"); err != nil {
		return "", err
	}
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	id := fmt.Sprintf("gen-%d", f.nextID)
	f.records[id] = rec.WithID(id)
	return id, nil
}

func (f *fakeGateway) Update(ctx context.Context, id string, rec siswa.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update:" + id)
	if err := f.block(ctx, "update:"+id); err != nil {
		return err
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.records[id]; !ok {
		return gateway.ErrNotFound
	}
	f.records[id] = rec.WithID(id)
	return nil
}

func (f *fakeGateway) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + id)
	if err := f.block(ctx, "delete:"+id); err != nil {
		return err
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, id)
	return nil
}

func (f *fakeGateway) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[id]
	return ok
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// recorder collects status strings from a subscription, collapsing repeats.
type recorder struct {
	mu   sync.Mutex
	seen []string
	done chan struct{}
}

func recordStatuses[S fmt.Stringer](ch <-chan S) *recorder {
	r := &recorder{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for s := range ch {
			r.mu.Lock()
			if n := len(r.seen); n == 0 || r.seen[n-1] != s.String() {
				r.seen = append(r.seen, s.String())
			}
			r.mu.Unlock()
		}
	}()
	return r
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return ""
	}
	return r.seen[len(r.seen)-1]
}

