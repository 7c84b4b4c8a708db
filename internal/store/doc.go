// Package store provides SQLite-backed durable key-value storage for the
// calculator.
//
// The store holds string values under string keys in a single table:
//
//	kv(key TEXT PRIMARY KEY, value TEXT, updated_at INTEGER)
//
// It satisfies calculator.Storage. Writes are upserts; deleting a missing
// key is not an error.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: SQLite allows a single writer
//
// The schema version is tracked in PRAGMA user_version. Opening a database
// written by a newer schema version fails rather than guessing.
//
// # Best-effort persistence
//
// BestEffort wraps any KV so that storage failures are logged and swallowed.
// Front ends use it when losing a write must not interrupt the user.
package store
