// Package sqlite provides a SQLite-based implementation of the reading
// position ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, so lectern cross-compiles cleanly. One database holds:
//
//   - LocationStore: the last navigated section of each reading session
//   - LocationHistory: recently read sessions, newest first
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.lectern/data/positions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite in WAL mode.
package sqlite
