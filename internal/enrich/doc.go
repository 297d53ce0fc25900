// Package enrich turns item titles into catalog queries and applies a
// chosen catalog match back onto an item.
//
// Search normalization splits a title into name variants and an optional
// year, queries the movie and series buckets for each variant and dedupes
// the hits into Candidates. Applying a candidate happens in two phases:
// ApplyFast overwrites the item from fields the candidate already carries,
// and ApplyDetails later folds in the authoritative detail record
// (countries, series counts, air dates). Both phases replace catalog data
// wholesale; only the reserved viewed tag survives. Orchestration of the two
// phases, persistence and staleness checks live in the session package.
package enrich
