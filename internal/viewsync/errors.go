package viewsync

import (
	"errors"
	"fmt"
)

// Operation names carried by MutationError and PreconditionError.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpLoad   = "load"
	OpRetry  = "retry"
)

var (
	// ErrRecordNotFound is returned by Editor.Load when the id has no record.
	ErrRecordNotFound = errors.New("viewsync: record not found")
	// ErrPrecondition is wrapped by every PreconditionError.
	ErrPrecondition = errors.New("viewsync: precondition violated")
)

// FetchError reports a failed collection subscription.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch records: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// LoadError reports a failed single-record fetch.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load record %q: %v", e.ID, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// MutationError reports an insert, update or delete the gateway rejected.
type MutationError struct {
	Op  string
	ID  string
	Err error
}

func (e *MutationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s record: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s record %q: %v", e.Op, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// PreconditionError means the caller invoked Op in a state that does not
// support it. It signals a programming error and is never folded into a
// status value.
type PreconditionError struct {
	Op    string
	State string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("viewsync: %s not allowed in state %s", e.Op, e.State)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }
