package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"shelf/internal/enrich"
	"shelf/internal/library"
	"shelf/internal/logging"
	"shelf/internal/pending"
)

// SearchResult reports how a catalog search ended for one item.
type SearchResult struct {
	State      pending.State
	Candidates []enrich.Candidate
	// Stale is true when a newer search for the item superseded this one.
	Stale bool
	// Failed is true when the catalog call errored; the lookup was closed.
	Failed bool
}

// PendingItem is an item waiting in the pick workflow.
type PendingItem struct {
	ID         string
	Section    string
	Text       string
	State      pending.State
	Candidates []enrich.Candidate
}

func (s *Session) openPending(ctx context.Context, id string) {
	if !s.CatalogEnabled() {
		return
	}
	if err := s.registry.Open(ctx, id); err != nil {
		logging.WarnWithContext(s.logger, "open pending lookup failed", "pending_persist",
			logging.ItemID(id),
			logging.String(logging.FieldErrorHint, "check state database permissions"),
			logging.String(logging.FieldImpact, "the lookup is lost on restart"),
			logging.Error(err),
		)
	}
}

// Pending lists items in the pick workflow. Ids whose item no longer exists
// are dropped from the workflow.
func (s *Session) Pending(ctx context.Context) []PendingItem {
	var (
		out   []PendingItem
		stale []string
	)
	s.mu.Lock()
	for _, id := range s.registry.IDs() {
		loc, it, ok := s.store.FindItem(id)
		if !ok {
			stale = append(stale, id)
			continue
		}
		out = append(out, PendingItem{
			ID:         id,
			Section:    loc.Section,
			Text:       it.Text,
			State:      s.registry.State(id),
			Candidates: s.registry.Candidates(id),
		})
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.registry.Clear(ctx, id)
	}
	return out
}

// Search runs a catalog lookup for an item and records the response in the
// pick workflow. A clean item is opened first.
func (s *Session) Search(ctx context.Context, id string) (SearchResult, error) {
	if !s.CatalogEnabled() {
		return SearchResult{}, ErrCatalogDisabled
	}
	s.mu.Lock()
	_, it, ok := s.store.FindItem(id)
	if !ok {
		s.mu.Unlock()
		return SearchResult{}, fmt.Errorf("%s: %w", id, library.ErrItemNotFound)
	}
	text := it.Text
	s.mu.Unlock()

	if s.registry.State(id) == pending.Clean {
		s.openPending(ctx, id)
	}
	token, ok := s.registry.Begin(id)
	if !ok {
		return SearchResult{State: pending.Clean}, nil
	}

	candidates, err := s.enricher.Search(ctx, text)
	if err != nil {
		logging.WarnWithContext(s.logger, "catalog search failed", "catalog_search",
			logging.ItemID(id),
			logging.String("title", text),
			logging.String(logging.FieldErrorHint, "check TMDB api key and network connectivity"),
			logging.String(logging.FieldImpact, "item left without catalog metadata"),
			logging.Error(err),
		)
	}
	state, applied := s.registry.Resolve(ctx, id, token, candidates, err)
	result := SearchResult{State: state, Stale: !applied, Failed: err != nil}
	if applied && state == pending.PendingChoice {
		result.Candidates = candidates
	}
	s.logger.Debug("catalog search resolved",
		logging.ItemID(id),
		logging.String("state", state.String()),
		logging.Int("candidates", len(candidates)),
		logging.Bool("stale", !applied),
	)
	return result, nil
}

// Pick applies the candidate at index from the item's offered choices. The
// item is updated and written before Pick returns; catalog details are
// fetched in the background.
func (s *Session) Pick(ctx context.Context, id string, index int) (*library.Item, error) {
	if !s.CatalogEnabled() {
		return nil, ErrCatalogDisabled
	}
	candidates := s.registry.Candidates(id)
	if index < 0 || index >= len(candidates) {
		return nil, fmt.Errorf("%s #%d: %w", id, index+1, ErrNoCandidate)
	}
	return s.Apply(ctx, id, candidates[index])
}

// Apply writes a candidate onto an item and schedules hydration.
func (s *Session) Apply(ctx context.Context, id string, c enrich.Candidate) (*library.Item, error) {
	if !s.CatalogEnabled() {
		return nil, ErrCatalogDisabled
	}
	genres := s.enricher.GenresOrEmpty(ctx)

	s.mu.Lock()
	var out *library.Item
	err := s.store.UpdateItem(id, func(it *library.Item) {
		enrich.ApplyFast(it, c, genres)
		out = it.Clone()
	})
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.registry.Clear(ctx, id)
	s.write(ctx, snap)
	s.logger.Info("catalog match applied",
		logging.ItemID(id),
		logging.TMDBID(c.ID),
		logging.MediaType(string(c.MediaType)),
	)

	s.hydrations.Add(1)
	go func() {
		defer s.hydrations.Done()
		s.hydrate(context.WithoutCancel(ctx), id, c)
	}()
	return out, nil
}

// hydrate fills the detail fields of an applied candidate. The item is
// looked up again by id; a missing item or one re-matched meanwhile is left
// alone.
func (s *Session) hydrate(ctx context.Context, id string, c enrich.Candidate) {
	details, err := s.enricher.Details(ctx, c)
	if err != nil {
		logging.WarnWithContext(s.logger, "catalog details failed", "catalog_details",
			logging.ItemID(id),
			logging.TMDBID(c.ID),
			logging.String(logging.FieldErrorHint, "retry with shelf fetch"),
			logging.String(logging.FieldImpact, "country tags and series fields stay empty"),
			logging.Error(err),
		)
		return
	}
	genres := s.enricher.GenresOrEmpty(ctx)

	s.mu.Lock()
	_, it, ok := s.store.FindItem(id)
	if !ok || it.CatalogID != c.ID || it.MediaType != c.MediaType {
		s.mu.Unlock()
		s.logger.Debug("hydration target gone", logging.ItemID(id))
		return
	}
	if err := s.store.UpdateItem(id, func(it *library.Item) {
		enrich.ApplyDetails(it, details, genres, c.GenreIDs)
	}); err != nil {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	s.logger.Debug("catalog details applied", logging.ItemID(id))
}

// Dismiss closes the pick workflow for an item without changing it.
func (s *Session) Dismiss(ctx context.Context, id string) {
	s.registry.Clear(ctx, id)
}

// Fetch is the single-item lookup: it searches and applies the result when
// exactly one candidate comes back.
func (s *Session) Fetch(ctx context.Context, id string) (SearchResult, *library.Item, error) {
	if !s.CatalogEnabled() {
		return SearchResult{}, nil, ErrCatalogDisabled
	}
	s.openPending(ctx, id)
	result, err := s.Search(ctx, id)
	if err != nil || result.Stale || len(result.Candidates) != 1 {
		return result, nil, err
	}
	it, err := s.Apply(ctx, id, result.Candidates[0])
	if err != nil {
		return result, nil, err
	}
	result.State = pending.Clean
	return result, it, nil
}

// ResumePending re-issues searches for items restored in PendingSearch.
func (s *Session) ResumePending(ctx context.Context) error {
	if !s.CatalogEnabled() {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, p := range s.Pending(ctx) {
		if p.State != pending.PendingSearch {
			continue
		}
		id := p.ID
		g.Go(func() error {
			_, err := s.Search(gctx, id)
			return err
		})
	}
	return g.Wait()
}
