package session

import (
	"context"

	"shelf/internal/logging"
	"shelf/internal/undo"
)

// UndoPending returns the live undo entry, if any.
func (s *Session) UndoPending() (undo.Entry, bool) {
	return s.undo.Peek()
}

// Undo reverses the most recent undoable operation. The slot is emptied
// whether or not the replay succeeds.
func (s *Session) Undo(ctx context.Context) (undo.Outcome, error) {
	entry, err := s.undo.Take(ctx)
	if err != nil {
		return undo.Outcome{}, err
	}
	s.mu.Lock()
	outcome, err := undo.Replay(s.store, entry)
	if err != nil {
		s.mu.Unlock()
		return outcome, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.write(ctx, snap)
	s.logger.Info("undo applied",
		logging.UndoKind(string(outcome.Kind)),
		logging.ItemID(outcome.ItemID),
		logging.Section(outcome.Section),
	)
	return outcome, nil
}
