// Package kv is the sqlite-backed key-value store for everything shelf keeps
// outside the library document: view preferences, the pending-pick id set,
// and the persisted undo slot.
//
// The database runs in WAL mode with a busy timeout, and writes retry briefly
// on SQLITE_BUSY so a CLI invocation and a long-running session can share
// the file. The schema is embedded and versioned; a mismatch is reported
// instead of migrated.
package kv
