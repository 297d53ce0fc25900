// Package tmdb is the TMDB API client behind catalog enrichment.
//
// Client exposes movie and TV search with an optional year filter, movie and
// TV detail lookups, and the genre lists. Catalog adapts a Client to the
// enrich.Catalog interface: it builds poster URLs, caps the result count and
// merges the movie and TV genre tables. Options let tests swap in an
// httptest-backed HTTP client.
package tmdb
