package pending

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"shelf/internal/enrich"
	"shelf/internal/logging"
)

// SetName is the persisted set holding pending item ids.
const SetName = "pending_ids"

const choicesKeyPrefix = "pending_choices:"

// State is the workflow state of one item.
type State int

const (
	Clean State = iota
	PendingSearch
	PendingChoice
)

func (s State) String() string {
	switch s {
	case PendingSearch:
		return "pending_search"
	case PendingChoice:
		return "pending_choice"
	default:
		return "clean"
	}
}

// SetStore is the persistence the registry needs.
type SetStore interface {
	SetAdd(ctx context.Context, set, member string) error
	SetRemove(ctx context.Context, set, member string) error
	SetContains(ctx context.Context, set, member string) (bool, error)
	SetMembers(ctx context.Context, set string) ([]string, error)
}

// ChoiceStore is optionally implemented by the SetStore to keep offered
// candidates across processes.
type ChoiceStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Token identifies one issued search.
type Token uint64

type entry struct {
	state      State
	candidates []enrich.Candidate
}

// Registry is the pending-pick state machine.
type Registry struct {
	mu      sync.Mutex
	sets    SetStore
	choices ChoiceStore
	logger  *slog.Logger
	order   []string
	entries map[string]*entry
	tokens  map[string]Token
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry loads persisted pending ids. They start in PendingSearch, or
// PendingChoice when stored candidates are found.
func NewRegistry(ctx context.Context, sets SetStore, opts ...Option) (*Registry, error) {
	if sets == nil {
		sets = NewMemorySet()
	}
	r := &Registry{
		sets:    sets,
		logger:  logging.NewNop(),
		entries: make(map[string]*entry),
		tokens:  make(map[string]Token),
	}
	r.choices, _ = sets.(ChoiceStore)
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "pending")

	ids, err := sets.SetMembers(ctx, SetName)
	if err != nil {
		return nil, fmt.Errorf("load pending ids: %w", err)
	}
	for _, id := range ids {
		e := &entry{state: PendingSearch}
		if r.choices != nil {
			var stored []enrich.Candidate
			if ok, err := r.choices.GetJSON(ctx, choicesKeyPrefix+id, &stored); err == nil && ok && len(stored) > 0 {
				e.state = PendingChoice
				e.candidates = stored
			}
		}
		r.entries[id] = e
		r.order = append(r.order, id)
	}
	return r, nil
}

// Open moves an item into PendingSearch, discarding any earlier choices.
// Searches issued before the call can no longer resolve.
func (r *Registry) Open(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		return nil
	}
	if _, ok := r.entries[id]; !ok {
		r.order = append(r.order, id)
	}
	r.entries[id] = &entry{state: PendingSearch}
	r.tokens[id]++
	if err := r.sets.SetAdd(ctx, SetName, id); err != nil {
		return err
	}
	r.dropChoices(ctx, id)
	return nil
}

// Begin issues a search token for a pending item. ok is false when the item
// is Clean.
func (r *Registry) Begin(id string) (Token, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return 0, false
	}
	r.tokens[id]++
	return r.tokens[id], true
}

// Current returns the highest token issued for id.
func (r *Registry) Current(id string) Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[id]
}

// Resolve records a search response. Responses carrying a superseded token,
// or arriving after the item left the workflow, are dropped and applied is
// false. Zero candidates or an error close the workflow.
func (r *Registry) Resolve(ctx context.Context, id string, token Token, candidates []enrich.Candidate, searchErr error) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || token != r.tokens[id] {
		r.logger.Debug("discarding stale search response",
			logging.ItemID(id),
			logging.Uint64("token", uint64(token)),
			logging.Uint64("current", uint64(r.tokens[id])),
		)
		if ok {
			return e.state, false
		}
		return Clean, false
	}
	if searchErr != nil || len(candidates) == 0 {
		r.clearLocked(ctx, id)
		return Clean, true
	}
	e.state = PendingChoice
	e.candidates = append([]enrich.Candidate(nil), candidates...)
	if r.choices != nil {
		if err := r.choices.SetJSON(ctx, choicesKeyPrefix+id, e.candidates); err != nil {
			logging.WarnWithContext(r.logger, "persist candidates failed", "pending_persist",
				logging.ItemID(id),
				logging.String(logging.FieldErrorHint, "check state database permissions"),
				logging.String(logging.FieldImpact, "candidates must be searched again after restart"),
				logging.Error(err),
			)
		}
	}
	return PendingChoice, true
}

// Clear closes the workflow for id.
func (r *Registry) Clear(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked(ctx, id)
}

func (r *Registry) clearLocked(ctx context.Context, id string) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if err := r.sets.SetRemove(ctx, SetName, id); err != nil {
		logging.WarnWithContext(r.logger, "remove pending id failed", "pending_persist",
			logging.ItemID(id),
			logging.String(logging.FieldErrorHint, "check state database permissions"),
			logging.String(logging.FieldImpact, "item may show as pending after restart"),
			logging.Error(err),
		)
	}
	r.dropChoices(ctx, id)
}

func (r *Registry) dropChoices(ctx context.Context, id string) {
	if r.choices == nil {
		return
	}
	if err := r.choices.Delete(ctx, choicesKeyPrefix+id); err != nil {
		r.logger.Debug("drop stored candidates failed", logging.ItemID(id), logging.Error(err))
	}
}

// State reports the workflow state of id.
func (r *Registry) State(id string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return e.state
	}
	return Clean
}

// Candidates returns the choices offered for id.
func (r *Registry) Candidates(id string) []enrich.Candidate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return append([]enrich.Candidate(nil), e.candidates...)
	}
	return nil
}

// IDs lists pending ids in the order they entered the workflow.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Contains reports whether id is persisted as pending.
func (r *Registry) Contains(ctx context.Context, id string) (bool, error) {
	return r.sets.SetContains(ctx, SetName, id)
}
