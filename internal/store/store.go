// Package store persists student records for the reference document store and
// for the client's local gateway.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/five82/siswa/internal/siswa"
)

// ErrNotFound is returned when an update addresses a missing record.
var ErrNotFound = errors.New("record not found")

// Store is the persistence contract shared by every backend. Records come back
// in insertion order.
type Store interface {
	List(ctx context.Context) ([]siswa.Record, error)
	// Get returns found == false when no record has id.
	Get(ctx context.Context, id string) (rec siswa.Record, found bool, err error)
	// Insert assigns a fresh id and returns the stored record.
	Insert(ctx context.Context, rec siswa.Record) (siswa.Record, error)
	// Update replaces every field of the record at rec.ID.
	Update(ctx context.Context, rec siswa.Record) error
	// Delete is idempotent: deleting a missing id succeeds.
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}
