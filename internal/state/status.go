package state

import (
	"fmt"

	"github.com/five82/siswa/internal/siswa"
)

// ListStatus is the closed set of states the record list screen can observe.
// The unexported marker keeps the set closed to this package.
type ListStatus interface {
	listStatus()
	String() string
}

// ListLoading means no list data is available yet.
type ListLoading struct{}

// ListSuccess carries the latest delivered collection, possibly empty.
type ListSuccess struct {
	Records []siswa.Record
}

// ListError means the last subscription attempt failed.
type ListError struct {
	Err error
}

func (ListLoading) listStatus() {}
func (ListSuccess) listStatus() {}
func (ListError) listStatus()   {}

func (ListLoading) String() string   { return "loading" }
func (s ListSuccess) String() string { return fmt.Sprintf("success(%d)", len(s.Records)) }
func (ListError) String() string     { return "error" }

// MatchList dispatches on every list variant. Adding a variant changes this
// signature, so every observer fails to compile until it handles the new case.
func MatchList[T any](s ListStatus, loading func() T, success func([]siswa.Record) T, failed func(error) T) T {
	switch v := s.(type) {
	case ListLoading:
		return loading()
	case ListSuccess:
		return success(siswa.Clone(v.Records))
	case ListError:
		return failed(v.Err)
	}
	panic(fmt.Sprintf("state: unknown list status %T", s))
}

// DetailStatus is the closed set of states the single-record screen can observe.
type DetailStatus interface {
	detailStatus()
	String() string
}

// DetailLoading means a load is in flight.
type DetailLoading struct{}

// DetailSuccess carries the loaded record. Found is false when the store had
// no record for the requested id, which is not a failure.
type DetailSuccess struct {
	Record siswa.Record
	Found  bool
}

// DetailError means the fetch itself failed.
type DetailError struct {
	Err error
}

func (DetailLoading) detailStatus() {}
func (DetailSuccess) detailStatus() {}
func (DetailError) detailStatus()   {}

func (DetailLoading) String() string { return "loading" }
func (s DetailSuccess) String() string {
	if !s.Found {
		return "success(absent)"
	}
	return "success(" + s.Record.ID + ")"
}
func (DetailError) String() string { return "error" }

// MatchDetail dispatches on every detail variant.
func MatchDetail[T any](s DetailStatus, loading func() T, success func(rec siswa.Record, found bool) T, failed func(error) T) T {
	switch v := s.(type) {
	case DetailLoading:
		return loading()
	case DetailSuccess:
		return success(v.Record, v.Found)
	case DetailError:
		return failed(v.Err)
	}
	panic(fmt.Sprintf("state: unknown detail status %T", s))
}

// CloneList copies the payload of a list status.
func CloneList(s ListStatus) ListStatus {
	if v, ok := s.(ListSuccess); ok {
		return ListSuccess{Records: siswa.Clone(v.Records)}
	}
	return s
}
