package viewsync

import (
	"context"
	"sync"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/state"
)

// List drives the all-records screen from a collection subscription.
type List struct {
	gw     gateway.Gateway
	log    logging.Logger
	status *state.Cell[state.ListStatus]

	mu       sync.Mutex
	parent   context.Context
	gen      uint64
	version  uint64
	cancel   context.CancelFunc
	done     chan struct{}
	detached bool
}

// NewList returns a synchronizer in the Loading state. A nil logger discards.
func NewList(gw gateway.Gateway, log logging.Logger) *List {
	if log == nil {
		log = logging.Discard()
	}
	return &List{
		gw:     gw,
		log:    log.With("component", "viewsync.list"),
		status: state.NewCell[state.ListStatus](state.ListLoading{}, state.CloneList),
		parent: context.Background(),
	}
}

// Status returns the current status.
func (l *List) Status() state.ListStatus {
	return l.status.Get()
}

// Subscribe watches status replacements. See state.Cell.Subscribe.
func (l *List) Subscribe(buffer int) (<-chan state.ListStatus, func()) {
	return l.status.Subscribe(buffer)
}

// Attach binds the synchronizer to ctx and starts observing.
func (l *List) Attach(ctx context.Context) {
	l.mu.Lock()
	l.parent = ctx
	l.detached = false
	l.mu.Unlock()
	l.Observe()
}

// Observe replaces any live subscription with a new one. The status moves to
// Loading until the first snapshot or failure arrives.
func (l *List) Observe() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.detached {
		l.log.Warn("observe after detach ignored")
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.version = 0
	gen := l.gen
	prev := l.done

	ctx, cancel := context.WithCancel(l.parent)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.status.Set(state.ListLoading{})

	go l.run(ctx, gen, prev, done)
}

// Retry re-establishes the subscription after an error.
func (l *List) Retry() {
	l.log.Info("retrying list subscription")
	l.Observe()
}

// Detach cancels the subscription and waits for it to wind down. The status
// is left as it was.
func (l *List) Detach() {
	l.mu.Lock()
	l.detached = true
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	done := l.done
	l.done = nil
	l.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (l *List) run(ctx context.Context, gen uint64, prev <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	// One subscription at a time: the replaced one must release its
	// listener before this one opens.
	if prev != nil {
		<-prev
	}
	if ctx.Err() != nil {
		return
	}

	snaps, err := l.gw.SubscribeAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		l.log.BusinessError("list subscription failed", err)
		l.publish(gen, 0, state.ListError{Err: &FetchError{Err: err}})
		return
	}

	// Drain until the gateway closes the channel so its listener is gone
	// before done closes.
	for snap := range snaps {
		if ctx.Err() != nil {
			continue
		}
		if snap.Err != nil {
			l.log.BusinessError("list subscription tick failed", snap.Err, "version", snap.Version)
			l.publish(gen, snap.Version, state.ListError{Err: &FetchError{Err: snap.Err}})
			continue
		}
		l.publish(gen, snap.Version, state.ListSuccess{Records: snap.Records})
	}
}

func (l *List) publish(gen, version uint64, next state.ListStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return
	}
	if version < l.version {
		l.log.Debug("dropping stale snapshot", "version", version, "applied", l.version)
		return
	}
	l.version = version
	l.status.Set(next)
}
