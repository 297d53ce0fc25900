// Package logging assembles the structured slog loggers used across shelf.
//
// It owns the console and JSON handlers, level and output plumbing, and a
// small set of attribute helpers so every component emits the same field
// names (component, item_id, section, event_type, error_hint, impact).
// Background enrichment and blob writes log failures through WarnWithContext
// so a swallowed network error still carries its cause and consequence.
//
// Tests and wiring code that cannot fail should use NewNop.
package logging
