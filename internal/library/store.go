package library

import (
	"fmt"
	"strings"
	"time"
)

// Store is the in-memory section graph. Section order is insertion order.
type Store struct {
	order    []string
	sections map[string]*Section
	now      func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for Modified and CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{sections: make(map[string]*Section), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is a positional view of an item. It is stale after any mutation.
type Location struct {
	Section string
	Index   int
}

// DeletedSection captures a removed section for later restoration.
type DeletedSection struct {
	Name     string
	Position int
	Section  *Section
}

// MoveRecord describes a completed move so it can be inverted.
type MoveRecord struct {
	FromSection string
	FromIndex   int
	ToSection   string
	ToIndex     int
	Item        *Item
}

// Now exposes the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// SectionNames lists section names in order.
func (s *Store) SectionNames() []string {
	return append([]string(nil), s.order...)
}

// FirstSection returns the first section name, or "" when empty.
func (s *Store) FirstSection() string {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[0]
}

// Section looks up a section by name.
func (s *Store) Section(name string) (*Section, bool) {
	sec, ok := s.sections[name]
	return sec, ok
}

// HasSection reports whether name exists.
func (s *Store) HasSection(name string) bool {
	_, ok := s.sections[name]
	return ok
}

// Len returns the number of sections.
func (s *Store) Len() int {
	return len(s.order)
}

// Items returns the live item slice of a section.
func (s *Store) Items(section string) ([]*Item, error) {
	sec, ok := s.sections[section]
	if !ok {
		return nil, fmt.Errorf("%q: %w", section, ErrSectionNotFound)
	}
	return sec.Items, nil
}

func (s *Store) touch(sec *Section) {
	sec.Modified = s.now()
}

func (s *Store) section(name string) (*Section, error) {
	sec, ok := s.sections[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrSectionNotFound)
	}
	return sec, nil
}

func (s *Store) insertSectionAt(sec *Section, pos int) {
	if pos < 0 || pos > len(s.order) {
		pos = len(s.order)
	}
	s.order = append(s.order, "")
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = sec.Name
	s.sections[sec.Name] = sec
}

func (s *Store) removeSection(name string) int {
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			delete(s.sections, name)
			return i
		}
	}
	return -1
}

// AddSection creates an empty section.
func (s *Store) AddSection(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptySectionName
	}
	if s.HasSection(name) {
		return fmt.Errorf("%q: %w", name, ErrSectionExists)
	}
	s.insertSectionAt(&Section{Name: name, Items: []*Item{}, Modified: s.now()}, -1)
	return nil
}

// EnsureSection returns the named section, creating it when missing.
func (s *Store) EnsureSection(name string) *Section {
	if sec, ok := s.sections[name]; ok {
		return sec
	}
	sec := &Section{Name: name, Items: []*Item{}, Modified: s.now()}
	s.insertSectionAt(sec, -1)
	return sec
}

// EnsureDefaultSections seeds names only when the store has no sections.
func (s *Store) EnsureDefaultSections(names ...string) bool {
	if len(s.order) > 0 {
		return false
	}
	added := false
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := s.AddSection(name); err == nil {
			added = true
		}
	}
	return added
}

// RenameOrMergeSection renames from to to. When to already exists the
// source items are appended to it and the source is removed; merged is true
// in that case. The viewed companion section follows the rename.
func (s *Store) RenameOrMergeSection(from, to string) (merged bool, err error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return false, ErrEmptySectionName
	}
	src, err := s.section(from)
	if err != nil {
		return false, err
	}
	if from == to {
		return false, nil
	}
	if dst, ok := s.sections[to]; ok {
		dst.Items = append(dst.Items, src.Items...)
		s.touch(dst)
		s.removeSection(from)
		merged = true
	} else {
		for i, n := range s.order {
			if n == from {
				s.order[i] = to
				break
			}
		}
		delete(s.sections, from)
		src.Name = to
		s.sections[to] = src
		s.touch(src)
	}
	if !IsViewedSection(from) && !IsViewedSection(to) {
		if _, ok := s.sections[ViewedSectionName(from)]; ok {
			if _, err := s.RenameOrMergeSection(ViewedSectionName(from), ViewedSectionName(to)); err != nil {
				return merged, err
			}
		}
	}
	return merged, nil
}

// DeleteSection removes a section and returns a deep copy for undo. The last
// remaining section cannot be deleted.
func (s *Store) DeleteSection(name string) (DeletedSection, error) {
	sec, err := s.section(name)
	if err != nil {
		return DeletedSection{}, err
	}
	if len(s.order) <= 1 {
		return DeletedSection{}, ErrLastSection
	}
	snapshot := sec.Clone()
	pos := s.removeSection(name)
	return DeletedSection{Name: name, Position: pos, Section: snapshot}, nil
}

// RestoreSection re-inserts a deleted section at its old position. When the
// name is taken the restored section is named "<name> (2)", "<name> (3)", ...
// The final name is returned.
func (s *Store) RestoreSection(deleted DeletedSection) (string, error) {
	if deleted.Section == nil {
		return "", fmt.Errorf("restore %q: %w", deleted.Name, ErrSectionNotFound)
	}
	name := deleted.Name
	for i := 2; s.HasSection(name); i++ {
		name = fmt.Sprintf("%s (%d)", deleted.Name, i)
	}
	sec := deleted.Section.Clone()
	sec.Name = name
	s.touch(sec)
	s.insertSectionAt(sec, deleted.Position)
	return name, nil
}

// Item returns the item at a position.
func (s *Store) Item(section string, index int) (*Item, error) {
	sec, err := s.section(section)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sec.Items) {
		return nil, fmt.Errorf("%s[%d]: %w", section, index, ErrIndexOutOfRange)
	}
	return sec.Items[index], nil
}

// FindItem resolves an item by its stable id.
func (s *Store) FindItem(id string) (Location, *Item, bool) {
	if id == "" {
		return Location{}, nil, false
	}
	for _, name := range s.order {
		for idx, it := range s.sections[name].Items {
			if it.ID == id {
				return Location{Section: name, Index: idx}, it, true
			}
		}
	}
	return Location{}, nil, false
}

func (s *Store) mustFind(id string) (Location, *Item, error) {
	loc, it, ok := s.FindItem(id)
	if !ok {
		return Location{}, nil, fmt.Errorf("%s: %w", id, ErrItemNotFound)
	}
	return loc, it, nil
}

// AddItem appends a new item with trimmed text.
func (s *Store) AddItem(section, text string) (*Item, error) {
	sec, err := s.section(section)
	if err != nil {
		return nil, err
	}
	it := NewItem(strings.TrimSpace(text), s.now())
	sec.Items = append(sec.Items, it)
	s.touch(sec)
	return it, nil
}

// InsertItem places item at index, clamped to the section bounds. A missing
// section is recreated.
func (s *Store) InsertItem(section string, index int, item *Item) error {
	if item == nil {
		return fmt.Errorf("insert into %q: nil item", section)
	}
	if strings.TrimSpace(section) == "" {
		return ErrEmptySectionName
	}
	sec := s.EnsureSection(section)
	if index < 0 {
		index = 0
	}
	if index > len(sec.Items) {
		index = len(sec.Items)
	}
	sec.Items = append(sec.Items, nil)
	copy(sec.Items[index+1:], sec.Items[index:])
	sec.Items[index] = item
	s.touch(sec)
	return nil
}

// DeleteItem removes and returns the item at a position.
func (s *Store) DeleteItem(section string, index int) (*Item, error) {
	sec, err := s.section(section)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sec.Items) {
		return nil, fmt.Errorf("%s[%d]: %w", section, index, ErrIndexOutOfRange)
	}
	it := sec.Items[index]
	sec.Items = append(sec.Items[:index], sec.Items[index+1:]...)
	s.touch(sec)
	return it, nil
}

// ReplaceItems swaps a section's whole item list, creating the section when
// it does not exist yet.
func (s *Store) ReplaceItems(section string, items []*Item) {
	sec := s.EnsureSection(section)
	if items == nil {
		items = []*Item{}
	}
	sec.Items = items
	s.touch(sec)
}

// UpdateItem runs fn against the item with id and stamps its section.
func (s *Store) UpdateItem(id string, fn func(*Item)) error {
	loc, it, err := s.mustFind(id)
	if err != nil {
		return err
	}
	fn(it)
	it.Tags = NormalizeTags(it.Tags)
	s.touch(s.sections[loc.Section])
	return nil
}

// SetText replaces an item's text.
func (s *Store) SetText(id, text string) (*Item, error) {
	var out *Item
	err := s.UpdateItem(id, func(it *Item) {
		it.Text = strings.TrimSpace(text)
		out = it
	})
	return out, err
}

// SetTags overwrites an item's tags.
func (s *Store) SetTags(id string, tags []string) error {
	return s.UpdateItem(id, func(it *Item) {
		it.Tags = append([]string{}, tags...)
	})
}

// AddTag appends a normalized tag when not already present.
func (s *Store) AddTag(id, tag string) (bool, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return false, nil
	}
	_, it, err := s.mustFind(id)
	if err != nil {
		return false, err
	}
	if containsTag(it.Tags, tag) {
		return false, nil
	}
	return true, s.UpdateItem(id, func(it *Item) { it.Tags = append(it.Tags, tag) })
}

// RemoveTag removes tag and returns the previous tag list.
func (s *Store) RemoveTag(id, tag string) ([]string, bool, error) {
	tag = NormalizeTag(tag)
	_, it, err := s.mustFind(id)
	if err != nil {
		return nil, false, err
	}
	if !containsTag(it.Tags, tag) {
		return nil, false, nil
	}
	prev := append([]string{}, it.Tags...)
	return prev, true, s.UpdateItem(id, func(it *Item) { it.Tags = removeTag(it.Tags, tag) })
}

// ClearTags drops every user tag, keeping the reserved viewed tag, and
// returns the previous list.
func (s *Store) ClearTags(id string) ([]string, bool, error) {
	_, it, err := s.mustFind(id)
	if err != nil {
		return nil, false, err
	}
	if len(VisibleTags(it.Tags)) == 0 {
		return nil, false, nil
	}
	prev := append([]string{}, it.Tags...)
	err = s.UpdateItem(id, func(it *Item) {
		kept := []string{}
		if it.IsViewed() {
			kept = append(kept, ViewedTag)
		}
		it.Tags = kept
	})
	return prev, true, err
}

// RenameTag renames one tag on one item. When the new tag is already
// present the old one is simply removed.
func (s *Store) RenameTag(id, from, to string) (bool, error) {
	from, to = NormalizeTag(from), NormalizeTag(to)
	if from == "" || to == "" || from == to {
		return false, nil
	}
	_, it, err := s.mustFind(id)
	if err != nil {
		return false, err
	}
	if !containsTag(it.Tags, from) {
		return false, nil
	}
	return true, s.UpdateItem(id, func(it *Item) {
		if containsTag(it.Tags, to) {
			it.Tags = removeTag(it.Tags, from)
			return
		}
		for i, tag := range it.Tags {
			if tag == from {
				it.Tags[i] = to
			}
		}
	})
}

// ToggleViewed flips the reserved viewed tag and returns the new state.
func (s *Store) ToggleViewed(id string) (bool, error) {
	_, it, err := s.mustFind(id)
	if err != nil {
		return false, err
	}
	viewed := !it.IsViewed()
	err = s.UpdateItem(id, func(it *Item) {
		if viewed {
			it.Tags = append(it.Tags, ViewedTag)
		} else {
			it.Tags = removeTag(it.Tags, ViewedTag)
		}
	})
	return viewed, err
}

// MoveItem moves the item at a position to the end of toSection.
func (s *Store) MoveItem(fromSection string, fromIndex int, toSection string) (MoveRecord, error) {
	if strings.TrimSpace(toSection) == "" {
		return MoveRecord{}, ErrEmptySectionName
	}
	if fromSection == toSection {
		it, err := s.Item(fromSection, fromIndex)
		if err != nil {
			return MoveRecord{}, err
		}
		return MoveRecord{FromSection: fromSection, FromIndex: fromIndex, ToSection: toSection, ToIndex: fromIndex, Item: it.Clone()}, nil
	}
	if _, err := s.section(toSection); err != nil {
		return MoveRecord{}, err
	}
	it, err := s.DeleteItem(fromSection, fromIndex)
	if err != nil {
		return MoveRecord{}, err
	}
	dst := s.sections[toSection]
	dst.Items = append(dst.Items, it)
	s.touch(dst)
	return MoveRecord{
		FromSection: fromSection,
		FromIndex:   fromIndex,
		ToSection:   toSection,
		ToIndex:     len(dst.Items) - 1,
		Item:        it.Clone(),
	}, nil
}

// RelocateItem moves the item with id to an exact position, recreating the
// target section when needed. Used to invert a move.
func (s *Store) RelocateItem(id, toSection string, toIndex int) error {
	loc, _, err := s.mustFind(id)
	if err != nil {
		return err
	}
	it, err := s.DeleteItem(loc.Section, loc.Index)
	if err != nil {
		return err
	}
	return s.InsertItem(toSection, toIndex, it)
}

// MarkViewed moves an item into its section's viewed companion, creating it
// when needed.
func (s *Store) MarkViewed(section string, index int) (MoveRecord, error) {
	if IsViewedSection(section) {
		it, err := s.Item(section, index)
		if err != nil {
			return MoveRecord{}, err
		}
		return MoveRecord{FromSection: section, FromIndex: index, ToSection: section, ToIndex: index, Item: it.Clone()}, nil
	}
	if _, err := s.Item(section, index); err != nil {
		return MoveRecord{}, err
	}
	s.EnsureSection(ViewedSectionName(section))
	return s.MoveItem(section, index, ViewedSectionName(section))
}

// ReturnFromViewed moves an item out of a viewed section back to its base
// section, recreating the base section when needed.
func (s *Store) ReturnFromViewed(section string, index int) (MoveRecord, error) {
	if !IsViewedSection(section) {
		return MoveRecord{}, fmt.Errorf("%q is not a viewed section: %w", section, ErrSectionNotFound)
	}
	if _, err := s.Item(section, index); err != nil {
		return MoveRecord{}, err
	}
	s.EnsureSection(BaseSectionName(section))
	return s.MoveItem(section, index, BaseSectionName(section))
}
