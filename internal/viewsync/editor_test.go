package viewsync

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/gateway/local"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
	"github.com/five82/siswa/internal/store/memory"
)

func TestEditor_SaveDispatch(t *testing.T) {
	gw := newFakeGateway(ani)
	e := NewEditor(gw, nil)
	var saved []string
	e.OnSaved(func(id string) { saved = append(saved, id) })

	id, err := e.Save(context.Background(), siswa.Record{Name: "Budi", Address: "Jl. B", Phone: "0813"})
	if err != nil {
		t.Fatalf("Save(create) returned error: %v", err)
	}
	if id != "gen-1" {
		t.Fatalf("created id = %q, want gen-1", id)
	}

	updated := ani
	updated.Name = "Ani Lestari"
	id, err = e.Save(context.Background(), updated)
	if err != nil {
		t.Fatalf("Save(update) returned error: %v", err)
	}
	if id != "42" {
		t.Fatalf("updated id = %q, want 42", id)
	}

	if got, want := gw.Calls(), []string{"insert", "update:42"}; !slices.Equal(got, want) {
		t.Fatalf("gateway calls = %v, want %v", got, want)
	}
	if got, want := saved, []string{"gen-1", "42"}; !slices.Equal(got, want) {
		t.Fatalf("OnSaved ids = %v, want %v", got, want)
	}
}

func TestEditor_ValidationSkipsGateway(t *testing.T) {
	gw := newFakeGateway()
	e := NewEditor(gw, nil)

	_, err := e.Save(context.Background(), siswa.Record{Name: "  ", Address: "Jl. B", Phone: "abc"})
	var vErr *siswa.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Save error = %v, want *siswa.ValidationError", err)
	}
	if vErr.Field(siswa.FieldName) == "" || vErr.Field(siswa.FieldPhone) == "" {
		t.Fatalf("fields = %v, want name and phone", vErr.Fields)
	}
	var mutErr *MutationError
	if errors.As(err, &mutErr) {
		t.Fatal("validation failure reported as mutation error")
	}
	if calls := gw.Calls(); len(calls) != 0 {
		t.Fatalf("gateway called: %v", calls)
	}
}

func TestEditor_GatewayFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	gw := newFakeGateway(ani)
	gw.insertErr = boom
	e := NewEditor(gw, nil)
	e.OnSaved(func(string) { t.Fatal("OnSaved fired after failure") })

	_, err := e.Save(context.Background(), siswa.Record{Name: "Budi", Address: "Jl. B", Phone: "0813"})
	var mutErr *MutationError
	if !errors.As(err, &mutErr) || mutErr.Op != OpInsert {
		t.Fatalf("Save error = %v, want insert *MutationError", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Save error = %v, want wrapped cause", err)
	}

	_, err = e.Save(context.Background(), siswa.Record{ID: "missing", Name: "X", Address: "Y", Phone: "1"})
	if !errors.As(err, &mutErr) || mutErr.Op != OpUpdate || !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("Save(missing) error = %v, want update *MutationError wrapping ErrNotFound", err)
	}
}

func TestEditor_SaveIsIdempotent(t *testing.T) {
	watched := store.Watch(memory.New(ani))
	e := NewEditor(local.New(watched, nil), nil)
	ctx := context.Background()

	edited := ani
	edited.Address = "Jl. Baru"
	if _, err := e.Save(ctx, edited); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	once, err := watched.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if _, err := e.Save(ctx, edited); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	twice, err := watched.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if !slices.Equal(once, twice) {
		t.Fatalf("state after second save = %v, want %v", twice, once)
	}
	if len(twice) != 1 || twice[0] != edited {
		t.Fatalf("stored = %v, want [%v]", twice, edited)
	}
}

func TestEditor_Load(t *testing.T) {
	gw := newFakeGateway(ani)
	e := NewEditor(gw, nil)
	ctx := context.Background()

	rec, err := e.Load(ctx, "42")
	if err != nil || rec != ani {
		t.Fatalf("Load = %v, %v", rec, err)
	}
	if _, err := e.Load(ctx, "99"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Load(99) error = %v, want ErrRecordNotFound", err)
	}
	if _, err := e.Load(ctx, ""); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("Load(\"\") error = %v, want ErrPrecondition", err)
	}

	gw.mu.Lock()
	gw.getErr = errors.New("offline")
	gw.mu.Unlock()
	var loadErr *LoadError
	if _, err := e.Load(ctx, "42"); !errors.As(err, &loadErr) {
		t.Fatalf("Load error = %v, want *LoadError", err)
	}
}

func TestEditor_DetachCancelsInflightSave(t *testing.T) {
	gw := newFakeGateway()
	gw.blockMutations = true
	e := NewEditor(gw, nil)
	e.Attach(context.Background())
	e.OnSaved(func(string) { t.Error("OnSaved fired for a cancelled save") })

	result := make(chan error, 1)
	go func() {
		_, err := e.Save(context.Background(), siswa.Record{Name: "Budi", Address: "Jl. B", Phone: "0813"})
		result <- err
	}()
	if call := <-gw.mutationStarts; call != "insert" {
		t.Fatalf("gateway call = %q, want insert", call)
	}

	detached := make(chan struct{})
	go func() {
		e.Detach()
		close(detached)
	}()
	select {
	case <-detached:
	case <-time.After(2 * time.Second):
		t.Fatal("Detach blocked on an in-flight save")
	}

	err := <-result
	var mutErr *MutationError
	if !errors.As(err, &mutErr) || mutErr.Op != OpInsert || !errors.Is(err, context.Canceled) {
		t.Fatalf("Save error = %v, want insert *MutationError wrapping context.Canceled", err)
	}

	_, err = e.Save(context.Background(), siswa.Record{Name: "Citra", Address: "Jl. C", Phone: "0814"})
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("Save after detach error = %v, want ErrPrecondition", err)
	}
	if _, err := e.Load(context.Background(), "42"); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("Load after detach error = %v, want ErrPrecondition", err)
	}

	gw.mu.Lock()
	gw.blockMutations = false
	gw.mu.Unlock()
	var saved []string
	e.OnSaved(func(id string) { saved = append(saved, id) })
	e.Attach(context.Background())
	id, err := e.Save(context.Background(), siswa.Record{Name: "Citra", Address: "Jl. C", Phone: "0814"})
	if err != nil {
		t.Fatalf("Save after re-attach returned error: %v", err)
	}
	if !slices.Equal(saved, []string{id}) {
		t.Fatalf("OnSaved ids = %v, want [%s]", saved, id)
	}
}
