// Package app is the composition root of the siswa client.
//
// Run loads configuration, opens the client log, picks a gateway for the
// configured driver and hands it to the terminal UI:
//
//   - remote: long-polls a siswad server at api_bind
//   - memory, sqlite, postgres: opens the store in-process and serves the
//     gateway from its change feed
//
// OpenStore is shared with cmd/siswad so both binaries agree on how a driver
// maps to a store.
package app
