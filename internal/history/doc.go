// Package history persists completed and failed enhancement runs in SQLite.
//
// The database is a lightweight archive, not coordination state: each run
// inserts exactly one row when it finishes, and the history subcommands read
// it back for display. Schema changes bump the version in schema.go; users
// clear the database to adopt a new schema.
package history
