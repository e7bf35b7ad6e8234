// Package remote implements gateway.Gateway over the siswad HTTP API.
//
// # Overview
//
// The client speaks JSON to the endpoints served by internal/server. CRUD calls
// map one-to-one onto HTTP requests, each bounded by a short timeout. The
// collection subscription is a long-poll loop.
//
// # Architecture
//
//   - client.go: construction, CRUD requests and response decoding
//   - watch.go: SubscribeAll and its long-poll loop with backoff
//
// # Client Usage
//
//	gw, err := remote.NewClient("127.0.0.1:7490", remote.Options{Logger: log})
//	if err != nil {
//		return err
//	}
//	snaps, err := gw.SubscribeAll(ctx)
//
// # Subscription
//
// SubscribeAll performs the first list request synchronously so an
// unreachable server surfaces as an initial-connection error. After that a
// goroutine issues GET /api/siswa?since=<cursor>&wait_ms=<long_poll>; the
// server answers as soon as its change counter passes the cursor or when the
// wait expires. Only changed collections are delivered.
//
// A failed poll delivers a Snapshot with Err set and sleeps before retrying:
// base, 2x, 4x and so on, capped at 30 seconds. The first successful poll
// after a failure always delivers, so consumers leave their error state.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the decoded error envelope.
// GET of a missing id is reported as found == false, and PUT of a missing id
// wraps gateway.ErrNotFound.
package remote
