// Package viewsync keeps screen status in step with the gateway.
//
// # Overview
//
// Three synchronizers mediate between the gateway and the presentation layer:
//
//   - List follows the live collection and publishes state.ListStatus
//   - Detail loads one record, publishes state.DetailStatus and executes
//     confirmed deletes
//   - Editor validates and persists a record, inserting or updating by id
//
// Each List and Detail owns a state.Cell. The UI reads it with Status or
// watches it with Subscribe; every transition replaces the whole value.
//
// # Lifecycle
//
// Attach binds a synchronizer to a context and Detach cancels everything in
// flight, loads, deletes and saves alike, and waits for it to finish. Nothing
// publishes after Detach returns, no OnSaved or OnDeleted callback fires for
// a call it cancelled, and gateway-side listeners have been released by then.
//
// # Ordering
//
// List drops snapshots whose version is older than the last one applied and
// ignores deliveries from a subscription that Observe or Retry replaced.
// Detail stamps every Load with a generation; only the newest generation may
// publish, so a slow response for an earlier id never overwrites a later one.
//
// # Errors
//
// Fetch and load failures become the Error status and never escape. Mutation
// failures are returned to the caller as *MutationError. Validation failures
// are returned as *siswa.ValidationError before any gateway call. Calling an
// operation in a state that cannot support it returns *PreconditionError and
// logs at error level.
//
// Methods may be called from the UI goroutine while gateway completions
// arrive on other goroutines; a mutex per synchronizer makes the generation
// check and the publish one step.
package viewsync
