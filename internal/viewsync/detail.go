package viewsync

import (
	"context"
	"sync"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/state"
)

// Detail drives the single-record screen.
type Detail struct {
	gw     gateway.Gateway
	log    logging.Logger
	status *state.Cell[state.DetailStatus]

	mu        sync.Mutex
	life      context.Context
	stop      context.CancelFunc
	gen       uint64
	cancel    context.CancelFunc
	lastID    string
	detached  bool
	inflight  sync.WaitGroup
	onDeleted func(id string)
}

// NewDetail returns a synchronizer in the Loading state. A nil logger discards.
func NewDetail(gw gateway.Gateway, log logging.Logger) *Detail {
	if log == nil {
		log = logging.Discard()
	}
	life, stop := context.WithCancel(context.Background())
	return &Detail{
		gw:     gw,
		log:    log.With("component", "viewsync.detail"),
		status: state.NewCell[state.DetailStatus](state.DetailLoading{}, nil),
		life:   life,
		stop:   stop,
	}
}

// OnDeleted registers fn to run after a successful DeleteCurrent. Register it
// before the first call.
func (d *Detail) OnDeleted(fn func(id string)) {
	d.mu.Lock()
	d.onDeleted = fn
	d.mu.Unlock()
}

// Status returns the current status.
func (d *Detail) Status() state.DetailStatus {
	return d.status.Get()
}

// Subscribe watches status replacements. See state.Cell.Subscribe.
func (d *Detail) Subscribe(buffer int) (<-chan state.DetailStatus, func()) {
	return d.status.Subscribe(buffer)
}

// Attach binds calls made from now on to ctx.
func (d *Detail) Attach(ctx context.Context) {
	d.mu.Lock()
	d.stop()
	d.life, d.stop = context.WithCancel(ctx)
	d.detached = false
	d.mu.Unlock()
}

// Detach cancels the in-flight load or delete and waits for it to return.
// Nothing publishes afterwards.
func (d *Detail) Detach() {
	d.mu.Lock()
	d.detached = true
	d.gen++
	d.stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.inflight.Wait()
}

// Load fetches id, superseding any load still in flight. It blocks until the
// gateway answers; the outcome is published as status, never returned. The
// only error is a *PreconditionError for an empty id or a detached instance.
func (d *Detail) Load(ctx context.Context, id string) error {
	if id == "" {
		return d.precondition(OpLoad, "missing id")
	}

	d.mu.Lock()
	if d.detached {
		d.mu.Unlock()
		return d.precondition(OpLoad, "detached")
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	gen := d.gen
	d.lastID = id
	callCtx, cancel := d.bind(ctx)
	d.cancel = cancel
	d.inflight.Add(1)
	d.status.Set(state.DetailLoading{})
	d.mu.Unlock()

	defer d.inflight.Done()
	defer cancel()

	rec, found, err := d.gw.GetByID(callCtx, id)
	if err != nil {
		d.log.BusinessError("load record failed", err, "id", id)
		d.publish(gen, state.DetailError{Err: &LoadError{ID: id, Err: err}})
		return nil
	}
	if !found {
		d.log.Info("record absent", "id", id)
		d.publish(gen, state.DetailSuccess{})
		return nil
	}
	d.publish(gen, state.DetailSuccess{Record: rec, Found: true})
	return nil
}

// Retry reloads the id of the last Load.
func (d *Detail) Retry(ctx context.Context) error {
	d.mu.Lock()
	id := d.lastID
	d.mu.Unlock()

	if id == "" {
		return d.precondition(OpRetry, "no previous load")
	}
	return d.Load(ctx, id)
}

// DeleteCurrent deletes the loaded record. The UI calls it only after the
// user confirmed. Without a present record it returns *PreconditionError and
// makes no gateway call. A gateway failure moves the status to Error and is
// returned as *MutationError. On success the record is reloaded, which yields
// Success(absent), and the OnDeleted callback runs.
func (d *Detail) DeleteCurrent(ctx context.Context) error {
	d.mu.Lock()
	current := d.status.Get()
	loaded, ok := current.(state.DetailSuccess)
	if !ok || !loaded.Found {
		d.mu.Unlock()
		return d.precondition(OpDelete, current.String())
	}
	if d.detached {
		d.mu.Unlock()
		return d.precondition(OpDelete, "detached")
	}
	id := loaded.Record.ID
	gen := d.gen
	life := d.life
	callCtx, cancel := d.bind(ctx)
	d.inflight.Add(1)
	onDeleted := d.onDeleted
	d.mu.Unlock()

	err := d.gw.DeleteByID(callCtx, id)
	cancel()
	d.inflight.Done()
	if err != nil {
		mutErr := &MutationError{Op: OpDelete, ID: id, Err: err}
		d.log.BusinessError("delete record failed", err, "id", id)
		d.publish(gen, state.DetailError{Err: mutErr})
		return mutErr
	}

	d.log.Info("record deleted", "id", id)
	if err := d.Load(ctx, id); err != nil {
		d.log.Debug("reload after delete skipped", "id", id, "err", err)
	}
	// A screen torn down meanwhile no longer wants to navigate.
	if onDeleted != nil && life.Err() == nil {
		onDeleted(id)
	}
	return nil
}

// bind derives a call context that ends with ctx, with Detach, or with the
// context given to Attach. Callers hold d.mu.
func (d *Detail) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(d.life, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}

func (d *Detail) publish(gen uint64, next state.DetailStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		d.log.Debug("dropping superseded result", "status", next.String())
		return
	}
	d.status.Set(next)
}

func (d *Detail) precondition(op, current string) error {
	err := &PreconditionError{Op: op, State: current}
	d.log.InternalError("detail operation misused", err, "op", op)
	return err
}

// Current returns the loaded record when the status is a present Success.
func (d *Detail) Current() (siswa.Record, bool) {
	if s, ok := d.Status().(state.DetailSuccess); ok && s.Found {
		return s.Record, true
	}
	return siswa.Record{}, false
}
