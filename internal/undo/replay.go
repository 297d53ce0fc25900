package undo

import (
	"fmt"

	"shelf/internal/library"
)

// Outcome describes what a replay touched.
type Outcome struct {
	Kind    Kind
	ItemID  string
	Section string
}

// Replay applies the inverse of entry to store. Targets are re-resolved:
// items by id, deleted sections recreated under a free name.
func Replay(store *library.Store, entry Entry) (Outcome, error) {
	out := Outcome{Kind: entry.Kind, ItemID: entry.ItemID}
	switch entry.Kind {
	case KindDeleteItem:
		if entry.Item == nil {
			return out, fmt.Errorf("undo %s: missing item", entry.Kind)
		}
		it := entry.Item.Clone()
		if _, _, exists := store.FindItem(it.ID); exists {
			it.ID = library.NewID()
		}
		if err := store.InsertItem(entry.Section, entry.Index, it); err != nil {
			return out, fmt.Errorf("undo %s: %w", entry.Kind, err)
		}
		out.ItemID, out.Section = it.ID, entry.Section
	case KindDeleteSection:
		if entry.Deleted == nil {
			return out, fmt.Errorf("undo %s: missing section", entry.Kind)
		}
		name, err := store.RestoreSection(*entry.Deleted)
		if err != nil {
			return out, fmt.Errorf("undo %s: %w", entry.Kind, err)
		}
		out.Section = name
	case KindRemoveTag, KindClearTags:
		if err := store.SetTags(entry.ItemID, entry.Tags); err != nil {
			return out, fmt.Errorf("undo %s: %w", entry.Kind, err)
		}
	case KindToggleViewed:
		_, it, ok := store.FindItem(entry.ItemID)
		if !ok {
			return out, fmt.Errorf("undo %s: %s: %w", entry.Kind, entry.ItemID, library.ErrItemNotFound)
		}
		if it.IsViewed() != entry.Viewed {
			if _, err := store.ToggleViewed(entry.ItemID); err != nil {
				return out, fmt.Errorf("undo %s: %w", entry.Kind, err)
			}
		}
	case KindMoveItem:
		if entry.Move == nil || entry.Move.Item == nil {
			return out, fmt.Errorf("undo %s: missing move record", entry.Kind)
		}
		out.ItemID, out.Section = entry.Move.Item.ID, entry.Move.FromSection
		if err := store.RelocateItem(entry.Move.Item.ID, entry.Move.FromSection, entry.Move.FromIndex); err != nil {
			return out, fmt.Errorf("undo %s: %w", entry.Kind, err)
		}
	default:
		return out, fmt.Errorf("undo: unknown kind %q", entry.Kind)
	}
	return out, nil
}
