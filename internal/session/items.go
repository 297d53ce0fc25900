package session

import (
	"context"
	"fmt"
	"strings"

	"shelf/internal/library"
	"shelf/internal/logging"
	"shelf/internal/undo"
	"shelf/internal/view"
)

// Item returns a copy of the item with id and where it lives.
func (s *Session) Item(id string) (library.Location, *library.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, it, ok := s.store.FindItem(id)
	if !ok {
		return library.Location{}, nil, fmt.Errorf("%s: %w", id, library.ErrItemNotFound)
	}
	return loc, it.Clone(), nil
}

// Entries lists items for scope after filtering and sorting. Items are
// copies.
func (s *Session) Entries(scope view.Scope, filter view.Filter, order view.Sort) []view.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := view.Entries(s.store, scope, filter, order, view.WithCollation(s.collation))
	for i := range entries {
		entries[i].Item = entries[i].Item.Clone()
	}
	return entries
}

// TagCounts counts visible tags over scope.
func (s *Session) TagCounts(scope view.Scope) []view.TagCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.TagCounts(s.store, scope, view.WithCollation(s.collation))
}

// AddItem appends a new item to section and opens a catalog lookup for it.
// Text may be blank; the lookup then waits for the first rename.
func (s *Session) AddItem(ctx context.Context, section, text string) (*library.Item, error) {
	s.mu.Lock()
	it, err := s.store.AddItem(section, text)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := it.Clone()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	s.openPending(ctx, out.ID)
	s.logger.Info("item added", logging.Section(section), logging.ItemID(out.ID))
	return out, nil
}

// RenameItem commits new text for an item. A changed text reopens the
// catalog lookup.
func (s *Session) RenameItem(ctx context.Context, id, text string) (*library.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	s.mu.Lock()
	_, before, ok := s.store.FindItem(id)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", id, library.ErrItemNotFound)
	}
	changed := before.Text != text
	it, err := s.store.SetText(id, text)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	out := it.Clone()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	if changed {
		s.openPending(ctx, id)
	}
	return out, nil
}

// DeleteItem removes an item. The deletion can be undone.
func (s *Session) DeleteItem(ctx context.Context, id string) (*library.Item, error) {
	s.mu.Lock()
	loc, _, ok := s.store.FindItem(id)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", id, library.ErrItemNotFound)
	}
	it, err := s.store.DeleteItem(loc.Section, loc.Index)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	redirected := s.redirectPrefsLocked("", "")
	prefs := s.prefs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.registry.Clear(ctx, id)
	s.undo.Record(ctx, undo.DeleteItem(loc.Section, loc.Index, it))
	s.write(ctx, snap)
	if redirected {
		s.savePrefs(ctx, prefs)
	}
	s.logger.Info("item deleted", logging.Section(loc.Section), logging.ItemID(id))
	return it.Clone(), nil
}

// MoveItem appends an item to another section. Moving to a different
// section closes its catalog lookup. The move can be undone.
func (s *Session) MoveItem(ctx context.Context, id, section string) (library.MoveRecord, error) {
	return s.move(ctx, id, func(store *library.Store, loc library.Location) (library.MoveRecord, error) {
		return store.MoveItem(loc.Section, loc.Index, section)
	})
}

// MarkViewed moves an item into its section's viewed companion.
func (s *Session) MarkViewed(ctx context.Context, id string) (library.MoveRecord, error) {
	return s.move(ctx, id, func(store *library.Store, loc library.Location) (library.MoveRecord, error) {
		return store.MarkViewed(loc.Section, loc.Index)
	})
}

// ReturnFromViewed moves an item from a viewed section back to its base.
func (s *Session) ReturnFromViewed(ctx context.Context, id string) (library.MoveRecord, error) {
	return s.move(ctx, id, func(store *library.Store, loc library.Location) (library.MoveRecord, error) {
		return store.ReturnFromViewed(loc.Section, loc.Index)
	})
}

func (s *Session) move(ctx context.Context, id string, fn func(*library.Store, library.Location) (library.MoveRecord, error)) (library.MoveRecord, error) {
	s.mu.Lock()
	loc, _, ok := s.store.FindItem(id)
	if !ok {
		s.mu.Unlock()
		return library.MoveRecord{}, fmt.Errorf("%s: %w", id, library.ErrItemNotFound)
	}
	rec, err := fn(s.store, loc)
	if err != nil {
		s.mu.Unlock()
		return library.MoveRecord{}, err
	}
	if rec.FromSection == rec.ToSection {
		s.mu.Unlock()
		return rec, nil
	}
	collapsed := s.prefs.Expanded == id
	if collapsed {
		s.prefs.Expanded = ""
	}
	prefs := s.prefs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.registry.Clear(ctx, id)
	if collapsed {
		s.savePrefs(ctx, prefs)
	}
	s.undo.Record(ctx, undo.MoveItem(rec))
	s.write(ctx, snap)
	s.logger.Info("item moved",
		logging.ItemID(id),
		logging.Section(rec.FromSection),
		logging.String("to", rec.ToSection),
	)
	return rec, nil
}

// ToggleViewed flips the viewed tag. The toggle can be undone.
func (s *Session) ToggleViewed(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	viewed, err := s.store.ToggleViewed(id)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.undo.Record(ctx, undo.ToggleViewed(id, !viewed))
	s.write(ctx, snap)
	return viewed, nil
}

// AddTag adds a normalized tag. It reports false when the tag was present.
func (s *Session) AddTag(ctx context.Context, id, tag string) (bool, error) {
	s.mu.Lock()
	added, err := s.store.AddTag(id, tag)
	if err != nil || !added {
		s.mu.Unlock()
		return added, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	return true, nil
}

// RemoveTag drops a tag. The removal can be undone.
func (s *Session) RemoveTag(ctx context.Context, id, tag string) (bool, error) {
	s.mu.Lock()
	previous, changed, err := s.store.RemoveTag(id, tag)
	if err != nil || !changed {
		s.mu.Unlock()
		return changed, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.undo.Record(ctx, undo.RemoveTag(id, library.NormalizeTag(tag), previous))
	s.write(ctx, snap)
	return true, nil
}

// ClearTags drops every user tag. The viewed tag stays. Can be undone.
func (s *Session) ClearTags(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	previous, changed, err := s.store.ClearTags(id)
	if err != nil || !changed {
		s.mu.Unlock()
		return changed, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.undo.Record(ctx, undo.ClearTags(id, previous))
	s.write(ctx, snap)
	return true, nil
}

// RenameTag replaces one tag with another on an item.
func (s *Session) RenameTag(ctx context.Context, id, from, to string) (bool, error) {
	s.mu.Lock()
	changed, err := s.store.RenameTag(id, from, to)
	if err != nil || !changed {
		s.mu.Unlock()
		return changed, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	return true, nil
}
