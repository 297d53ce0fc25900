// Package pending tracks items that still need a catalog decision.
//
// Each item moves Clean -> PendingSearch -> PendingChoice -> Clean and is
// keyed by its stable id, never by position. Membership lives in a persisted
// set so pending items survive restarts; they come back as PendingSearch.
// Every search issued for an item carries a token from a per-item counter,
// and only the response holding the latest token is accepted.
package pending
