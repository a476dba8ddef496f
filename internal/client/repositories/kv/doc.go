// Package kv persists small named string values in the local SQLite store.
//
// The table is created by the goose migrations in internal/client/migrations:
//
//	kv(key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at INTEGER NOT NULL)
//
// updated_at holds unix milliseconds of the last write.
package kv
