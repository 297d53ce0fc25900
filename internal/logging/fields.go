package logging

const (
	// FieldComponent names the emitting component (session, enrich, blob...).
	FieldComponent = "component"
	// FieldItemID carries the stable item id.
	FieldItemID = "item_id"
	// FieldSection carries a section name.
	FieldSection = "section"
	// FieldTMDBID and FieldMediaType identify a catalog match.
	FieldTMDBID    = "tmdb_id"
	FieldMediaType = "media_type"
	// FieldUndoKind is the operation held in the undo slot.
	FieldUndoKind = "undo_kind"
	// FieldEventType is a machine-friendly event name for warnings.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step after a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)
