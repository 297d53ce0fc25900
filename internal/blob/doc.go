// Package blob persists the library document as a single JSON blob.
//
// FileStore keeps it on local disk behind a gofrs/flock lock file and
// replaces it atomically on every write. GistStore keeps it as a file inside
// a GitHub gist. A missing document reads as empty; writes are
// last-write-wins.
package blob
