// Package state holds the UI status model shared by the synchronizers and the
// terminal UI.
//
// # Status Variants
//
// Each screen observes exactly one closed set of variants:
//
//	List:   ListLoading | ListSuccess{Records} | ListError{Err}
//	Detail: DetailLoading | DetailSuccess{Record, Found} | DetailError{Err}
//
// DetailSuccess with Found == false means the store has no record for the
// requested id. It is not an error.
//
// The variant sets are sealed by an unexported marker method. Observers match
// with MatchList and MatchDetail, which take one handler per variant, so a new
// variant is a compile-time break at every observation site.
//
// # Cell
//
// Cell is the coordination point between gateway completions (producer) and
// the UI (consumer):
//
//	Producer (synchronizer):        Consumer (UI):
//	┌────────────────────┐         ┌────────────────────┐
//	│ gateway completion │         │ <-ch (Subscribe)   │
//	│        ↓           │         │        ↓           │
//	│ cell.Set(status)   │────────→│ render status      │
//	└────────────────────┘ (mutex) └────────────────────┘
//
// Set replaces the value whole under a write lock, so readers never see half
// of an old status and half of a new one. Payload slices are cloned on the way
// in and out, mirroring the defensive copies of a snapshot store.
//
// Subscribe hands out buffered channels that always end with the newest value:
// a slow watcher loses intermediate values, never the latest one.
package state
