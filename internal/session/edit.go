package session

import (
	"context"

	"shelf/internal/logging"
	"shelf/internal/reconcile"
	"shelf/internal/view"
)

// BuildEdit renders the editor buffer for scope and filter.
func (s *Session) BuildEdit(scope view.Scope, filter view.Filter) view.EditBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.BuildEdit(s.store, scope, filter)
}

// PlanEdit folds an edited buffer into a plan without applying it.
func (s *Session) PlanEdit(buf view.EditBuffer, edited string) (reconcile.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buf.Plan(s.store, edited, reconcile.WithClock(s.now))
}

// ApplyEdit folds an edited buffer back into the library. Every section's
// new list is computed before any is replaced, and the library is written
// once. Created and renamed items enter the pick workflow; dropped ones
// leave it.
func (s *Session) ApplyEdit(ctx context.Context, buf view.EditBuffer, edited string) (reconcile.Plan, error) {
	s.mu.Lock()
	plan, err := buf.Plan(s.store, edited, reconcile.WithClock(s.now))
	if err != nil {
		s.mu.Unlock()
		return reconcile.Plan{}, err
	}
	if !plan.Changed() {
		s.mu.Unlock()
		return plan, nil
	}
	plan.Apply(s.store)
	redirected := s.redirectPrefsLocked("", "")
	prefs := s.prefs
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	if redirected {
		s.savePrefs(ctx, prefs)
	}
	for _, id := range plan.Dropped() {
		s.registry.Clear(ctx, id)
	}
	for _, id := range plan.Created() {
		s.openPending(ctx, id)
	}
	for _, id := range plan.Renamed() {
		s.openPending(ctx, id)
	}
	s.logger.Info("bulk edit applied",
		logging.Int("created", len(plan.Created())),
		logging.Int("renamed", len(plan.Renamed())),
		logging.Int("dropped", len(plan.Dropped())),
	)
	return plan, nil
}
