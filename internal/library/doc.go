// Package library holds the in-memory section/item graph that every other
// shelf component reads and mutates.
//
// Items are addressed by their stable ID; a (section, index) pair is only a
// view and goes stale after any reorder, filter or mutation, so callers that
// outlive a single synchronous step must re-resolve with FindItem. Tags are
// always stored normalized and deduplicated, and the reserved "viewed" tag is
// kept out of user-facing listings.
//
// The Store is not safe for concurrent use; the session engine serializes
// access. Document converts the graph to and from the persisted JSON shape
// ({"sections": {name: {"items": [...], "modified": ...}}}) while keeping the
// section order stable.
package library
