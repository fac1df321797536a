// Package store persists trace witnesses in SQLite.
//
// The store is one implementation of the audit-sink boundary: the
// interaction core hands finished witnesses to a trace.Sink and never
// depends on this package. Witnesses are append-only; writes are
// idempotent (ON CONFLICT DO NOTHING on the witness ID), so replaying a
// scenario against an existing log is safe.
//
// The database runs in WAL mode with a single writer connection, matching
// the single-writer discipline of the rest of the engine.
package store
