// Package store provides SQLite access for schema introspection and query
// evaluation.
//
// A Store exposes:
//   - Tables: the user tables and their declared columns, from sqlite_master
//     and PRAGMA table_info
//   - Run: a query evaluated into an in-memory Result
//   - Exec and Query: thin context-aware wrappers over database/sql
//
// # Database Configuration
//
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - one open connection, so ":memory:" databases are shared by all calls
package store
