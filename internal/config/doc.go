// Package config loads the TOML configuration shared by siswa and siswad.
//
// # Overview
//
// One file configures both binaries. The client reads the driver, the API
// address and its log settings; the server reads the listen address and the
// store settings.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/siswa/config.toml
//  3. If the file doesn't exist, use Default()
//  4. If the file exists but fields are empty, use their defaults
//
// # Default Values
//
//   - driver: remote
//   - api_bind and listen: 127.0.0.1:7490
//   - db_path: ~/.local/share/siswa/siswa.db
//   - log_dir: ~/.local/share/siswa/logs (client log: <log_dir>/siswa.log)
//   - log_level: info, log_format: text
//   - long_poll: 25s
//
// # TOML Format
//
//	driver = "sqlite"
//	api_bind = "127.0.0.1:7490"
//	listen = "127.0.0.1:7490"
//	db_path = "~/.local/share/siswa/siswa.db"
//	postgres_dsn = "host=localhost user=siswa dbname=siswa sslmode=disable"
//	log_dir = "~/.local/share/siswa/logs"
//	log_level = "debug"
//	log_format = "json"
//	long_poll = "25s"
//	seed = true
//
// Values are trimmed and paths get tilde expansion. seed fills an empty
// memory store with sample records.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, unknown
// drivers, a postgres driver without postgres_dsn and a non-positive
// long_poll. A missing file is not an error.
package config
