package session

import (
	"context"

	"shelf/internal/library"
	"shelf/internal/logging"
	"shelf/internal/undo"
)

// AddSection creates an empty section.
func (s *Session) AddSection(ctx context.Context, name string) error {
	s.mu.Lock()
	if err := s.store.AddSection(name); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	s.logger.Info("section added", logging.Section(name))
	return nil
}

// RenameSection renames from to to, merging into to when it already exists.
// Preferences pointing at from follow it.
func (s *Session) RenameSection(ctx context.Context, from, to string) (merged bool, err error) {
	s.mu.Lock()
	merged, err = s.store.RenameOrMergeSection(from, to)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	redirected := s.redirectPrefsLocked(from, to)
	prefs := s.prefs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	if redirected {
		s.savePrefs(ctx, prefs)
	}
	s.logger.Info("section renamed",
		logging.Section(from),
		logging.String("to", to),
		logging.Bool("merged", merged),
	)
	return merged, nil
}

// DeleteSection removes a section and its items. The deletion can be
// undone; pending lookups for its items are closed.
func (s *Session) DeleteSection(ctx context.Context, name string) error {
	s.mu.Lock()
	deleted, err := s.store.DeleteSection(name)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	redirected := s.redirectPrefsLocked(name, "")
	prefs := s.prefs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for _, it := range deleted.Section.Items {
		s.registry.Clear(ctx, it.ID)
	}
	s.undo.Record(ctx, undo.DeleteSection(deleted))
	s.write(ctx, snap)
	if redirected {
		s.savePrefs(ctx, prefs)
	}
	s.logger.Info("section deleted",
		logging.Section(name),
		logging.Int("items", len(deleted.Section.Items)),
	)
	return nil
}

// Sections lists section names in order.
func (s *Session) Sections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SectionNames()
}

// SectionSummary is a section name with its item count.
type SectionSummary struct {
	Name   string
	Items  int
	Viewed bool
}

// SectionSummaries lists every section with its size.
func (s *Session) SectionSummaries() []SectionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := s.store.SectionNames()
	out := make([]SectionSummary, 0, len(names))
	for _, name := range names {
		items, _ := s.store.Items(name)
		out = append(out, SectionSummary{
			Name:   name,
			Items:  len(items),
			Viewed: library.IsViewedSection(name),
		})
	}
	return out
}
