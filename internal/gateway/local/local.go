// Package local implements gateway.Gateway over an in-process store, turning
// the store's change feed into collection subscriptions.
package local

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
)

// Gateway serves the gateway contract from a watched store.
type Gateway struct {
	store  *store.Watched
	log    logging.Logger
	active atomic.Int64
}

var _ gateway.Gateway = (*Gateway)(nil)

// New wraps s. A nil logger discards.
func New(s *store.Watched, log logging.Logger) *Gateway {
	if log == nil {
		log = logging.Discard()
	}
	return &Gateway{store: s, log: log.With("component", "gateway.local")}
}

// Active reports the number of live subscriptions.
func (g *Gateway) Active() int {
	return int(g.active.Load())
}

func (g *Gateway) SubscribeAll(ctx context.Context) (<-chan gateway.Snapshot, error) {
	version := g.store.Version()
	records, err := g.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan gateway.Snapshot, 1)
	out <- gateway.Snapshot{Version: version, Records: records}

	g.active.Add(1)
	go func() {
		defer close(out)
		defer g.active.Add(-1)
		g.follow(ctx, version, out)
	}()
	return out, nil
}

func (g *Gateway) follow(ctx context.Context, since uint64, out chan<- gateway.Snapshot) {
	for {
		version, err := g.store.Wait(ctx, since)
		if err != nil {
			return
		}
		since = version

		snap := gateway.Snapshot{Version: version}
		records, err := g.store.List(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			g.log.Warn("subscription list failed", "err", err)
			snap.Err = err
		} else {
			snap.Records = records
		}

		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) GetByID(ctx context.Context, id string) (siswa.Record, bool, error) {
	return g.store.Get(ctx, id)
}

func (g *Gateway) Insert(ctx context.Context, rec siswa.Record) (string, error) {
	stored, err := g.store.Insert(ctx, rec)
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

func (g *Gateway) Update(ctx context.Context, id string, rec siswa.Record) error {
	err := g.store.Update(ctx, rec.WithID(id))
	if errors.Is(err, store.ErrNotFound) {
		return gateway.ErrNotFound
	}
	return err
}

func (g *Gateway) DeleteByID(ctx context.Context, id string) error {
	return g.store.Delete(ctx, id)
}
