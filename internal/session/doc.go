// Package session is the single writer over the library.
//
// A Session owns the in-memory store and serializes every mutation behind
// one mutex. After each mutation it snapshots the document and writes it to
// the blob store outside the lock; writes are versioned so an older snapshot
// never lands after a newer one. The session also drives the undo slot, the
// pending-pick workflow, catalog enrichment and the persisted preferences.
//
// Catalog and blob failures are logged and swallowed. Invalid user input
// comes back as an error wrapping one of the library sentinels.
package session
