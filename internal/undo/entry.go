package undo

import (
	"time"

	"shelf/internal/library"
)

// Kind names the mutation an entry reverses.
type Kind string

const (
	KindDeleteItem    Kind = "deleteItem"
	KindDeleteSection Kind = "deleteSection"
	KindRemoveTag     Kind = "removeTag"
	KindClearTags     Kind = "clearTags"
	KindToggleViewed  Kind = "toggleViewed"
	KindMoveItem      Kind = "moveItem"
)

// Entry is the undo payload. Kind selects which fields are meaningful:
//
//	deleteItem     Section, Index, Item
//	deleteSection  Deleted
//	removeTag      ItemID, Tags (previous), Tag
//	clearTags      ItemID, Tags (previous)
//	toggleViewed   ItemID, Viewed (previous)
//	moveItem       Move
type Entry struct {
	Kind      Kind      `json:"kind"`
	ExpiresAt time.Time `json:"expiresAt"`

	Section string        `json:"section,omitempty"`
	Index   int           `json:"index,omitempty"`
	Item    *library.Item `json:"item,omitempty"`

	ItemID string   `json:"itemId,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Tag    string   `json:"tag,omitempty"`
	Viewed bool     `json:"viewed,omitempty"`

	Deleted *library.DeletedSection `json:"deleted,omitempty"`
	Move    *library.MoveRecord     `json:"move,omitempty"`
}

// DeleteItem records a deleted item and where it lived.
func DeleteItem(section string, index int, item *library.Item) Entry {
	return Entry{Kind: KindDeleteItem, Section: section, Index: index, Item: item.Clone()}
}

// DeleteSection records a deleted section.
func DeleteSection(deleted library.DeletedSection) Entry {
	return Entry{Kind: KindDeleteSection, Deleted: &deleted}
}

// RemoveTag records the tag list before a tag was removed.
func RemoveTag(itemID, tag string, previous []string) Entry {
	return Entry{Kind: KindRemoveTag, ItemID: itemID, Tag: tag, Tags: append([]string{}, previous...)}
}

// ClearTags records the tag list before it was cleared.
func ClearTags(itemID string, previous []string) Entry {
	return Entry{Kind: KindClearTags, ItemID: itemID, Tags: append([]string{}, previous...)}
}

// ToggleViewed records the viewed state before a toggle.
func ToggleViewed(itemID string, previous bool) Entry {
	return Entry{Kind: KindToggleViewed, ItemID: itemID, Viewed: previous}
}

// MoveItem records a completed move.
func MoveItem(rec library.MoveRecord) Entry {
	return Entry{Kind: KindMoveItem, Move: &rec}
}

// Describe renders a short user-facing summary.
func (e Entry) Describe() string {
	switch e.Kind {
	case KindDeleteItem:
		if e.Item != nil {
			return "delete " + quote(e.Item.Text)
		}
	case KindDeleteSection:
		if e.Deleted != nil {
			return "delete section " + quote(e.Deleted.Name)
		}
	case KindRemoveTag:
		return "remove tag " + quote(e.Tag)
	case KindClearTags:
		return "clear tags"
	case KindToggleViewed:
		return "toggle viewed"
	case KindMoveItem:
		if e.Move != nil {
			return "move to " + quote(e.Move.ToSection)
		}
	}
	return string(e.Kind)
}

func quote(s string) string {
	return "\"" + s + "\""
}
