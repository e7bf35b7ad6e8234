package viewsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/siswa"
)

// Editor persists records for the entry and edit screens. It holds no status;
// the list subscription and detail reload observe the effect of a save.
type Editor struct {
	gw  gateway.Gateway
	log logging.Logger

	mu       sync.Mutex
	life     context.Context
	stop     context.CancelFunc
	detached bool
	inflight sync.WaitGroup
	onSaved  func(id string)
}

// NewEditor returns an attached editor. A nil logger discards.
func NewEditor(gw gateway.Gateway, log logging.Logger) *Editor {
	if log == nil {
		log = logging.Discard()
	}
	life, stop := context.WithCancel(context.Background())
	return &Editor{
		gw:   gw,
		log:  log.With("component", "viewsync.editor"),
		life: life,
		stop: stop,
	}
}

// OnSaved registers fn to run with the record id after every successful save.
func (e *Editor) OnSaved(fn func(id string)) {
	e.mu.Lock()
	e.onSaved = fn
	e.mu.Unlock()
}

// Attach binds calls made from now on to ctx.
func (e *Editor) Attach(ctx context.Context) {
	e.mu.Lock()
	e.stop()
	e.life, e.stop = context.WithCancel(ctx)
	e.detached = false
	e.mu.Unlock()
}

// Detach cancels any in-flight save or load and waits for it to return.
// OnSaved does not fire for a save that finishes after Detach.
func (e *Editor) Detach() {
	e.mu.Lock()
	e.detached = true
	e.stop()
	e.mu.Unlock()

	e.inflight.Wait()
}

// begin registers a call and derives its context from ctx and the attached
// lifetime.
func (e *Editor) begin(ctx context.Context, op string) (context.Context, context.Context, func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		err := &PreconditionError{Op: op, State: "detached"}
		e.log.InternalError("editor used after detach", err, "op", op)
		return nil, nil, nil, err
	}
	life := e.life
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(life, cancel)
	e.inflight.Add(1)
	return callCtx, life, func() {
		stop()
		cancel()
		e.inflight.Done()
	}, nil
}

// Save validates rec and inserts it when it has no id or replaces the record
// at rec.ID otherwise. It returns the stored id. Invalid input yields
// *siswa.ValidationError without touching the gateway; gateway failures yield
// *MutationError.
func (e *Editor) Save(ctx context.Context, rec siswa.Record) (string, error) {
	if err := siswa.Validate(rec); err != nil {
		e.log.Debug("save rejected by validation", "err", err)
		return "", err
	}
	rec = rec.Normalized()

	op := OpInsert
	if rec.HasID() {
		op = OpUpdate
	}
	callCtx, life, done, err := e.begin(ctx, op)
	if err != nil {
		return "", err
	}

	var id string
	if rec.HasID() {
		id = rec.ID
		err = e.gw.Update(callCtx, id, rec)
	} else {
		id, err = e.gw.Insert(callCtx, rec)
	}
	done()
	if err != nil {
		e.log.BusinessError(op+" record failed", err, "id", rec.ID)
		return "", &MutationError{Op: op, ID: rec.ID, Err: err}
	}
	e.log.Info("record saved", "op", op, "id", id)

	if life.Err() != nil {
		e.log.Debug("editor detached during save, skipping callback", "id", id)
		return id, nil
	}
	e.mu.Lock()
	onSaved := e.onSaved
	e.mu.Unlock()
	if onSaved != nil {
		onSaved(id)
	}
	return id, nil
}

// Load fetches the record an update-mode form starts from.
func (e *Editor) Load(ctx context.Context, id string) (siswa.Record, error) {
	if id == "" {
		err := &PreconditionError{Op: OpLoad, State: "missing id"}
		e.log.InternalError("editor opened without id", err)
		return siswa.Record{}, err
	}
	callCtx, _, done, err := e.begin(ctx, OpLoad)
	if err != nil {
		return siswa.Record{}, err
	}
	rec, found, err := e.gw.GetByID(callCtx, id)
	done()
	if err != nil {
		e.log.BusinessError("load record for edit failed", err, "id", id)
		return siswa.Record{}, &LoadError{ID: id, Err: err}
	}
	if !found {
		return siswa.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}
