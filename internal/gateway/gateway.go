// Package gateway defines the remote document-store contract the synchronizers
// consume. Implementations live in the local and remote subpackages.
package gateway

import (
	"context"
	"errors"

	"github.com/five82/siswa/internal/siswa"
)

// ErrNotFound is returned by Update when the id does not exist.
var ErrNotFound = errors.New("gateway: record not found")

// Snapshot is one delivery of a collection subscription. A snapshot with a
// non-nil Err is a failure tick; Records is meaningless then.
type Snapshot struct {
	Version uint64
	Records []siswa.Record
	Err     error
}

// Gateway is the opaque asynchronous CRUD and subscription service.
type Gateway interface {
	// SubscribeAll opens a live view of the full collection. The returned
	// channel delivers a snapshot after every change, in emission order, and
	// is closed once ctx is cancelled and all listener resources are released.
	// A non-nil error means the initial connection failed.
	SubscribeAll(ctx context.Context) (<-chan Snapshot, error)
	// GetByID returns found == false when the store has no such record.
	GetByID(ctx context.Context, id string) (rec siswa.Record, found bool, err error)
	// Insert creates rec and returns the identifier the store assigned.
	Insert(ctx context.Context, rec siswa.Record) (string, error)
	// Update replaces every field of the record at id.
	Update(ctx context.Context, id string, rec siswa.Record) error
	DeleteByID(ctx context.Context, id string) error
}
