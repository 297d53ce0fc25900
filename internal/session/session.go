package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"shelf/internal/blob"
	"shelf/internal/enrich"
	"shelf/internal/library"
	"shelf/internal/logging"
	"shelf/internal/pending"
	"shelf/internal/undo"
)

var (
	// ErrCatalogDisabled is returned by catalog operations when no catalog
	// key is configured.
	ErrCatalogDisabled = errors.New("catalog not configured")
	// ErrAmbiguousID is returned when an id prefix matches several items.
	ErrAmbiguousID = errors.New("ambiguous item id")
	// ErrNoCandidate is returned when a pick index has no candidate.
	ErrNoCandidate = errors.New("no such candidate")
	// ErrEmptyText rejects renaming an item to blank text.
	ErrEmptyText = errors.New("item text required")
)

// StateStore is the local key-value persistence the session uses for the
// pending set, offered candidates, the undo slot and preferences.
type StateStore interface {
	pending.SetStore
	pending.ChoiceStore
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Session wires the store to its collaborators.
type Session struct {
	mu       sync.Mutex
	store    *library.Store
	blobs    blob.Store
	state    StateStore
	registry *pending.Registry
	undo     *undo.Manager
	enricher *enrich.Enricher
	logger   *slog.Logger
	now      func() time.Time

	defaults  []string
	collation string
	undoTTL   time.Duration
	prefs     Prefs

	writeMu  sync.Mutex
	version  uint64
	written  uint64
	writeErr error

	hydrations sync.WaitGroup
	closers    []func() error
}

// Option configures a Session.
type Option func(*Session)

// WithStateStore persists pending ids, the undo slot and preferences.
func WithStateStore(state StateStore) Option {
	return func(s *Session) {
		s.state = state
	}
}

// WithEnricher enables the catalog workflow.
func WithEnricher(e *enrich.Enricher) Option {
	return func(s *Session) {
		s.enricher = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for the store and the undo slot.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultSections sets the sections seeded into an empty library.
func WithDefaultSections(names ...string) Option {
	return func(s *Session) {
		s.defaults = append([]string(nil), names...)
	}
}

// WithCollation sets the language used for alphabetical ordering.
func WithCollation(lang string) Option {
	return func(s *Session) {
		if strings.TrimSpace(lang) != "" {
			s.collation = lang
		}
	}
}

// WithUndoTTL sets the undo window.
func WithUndoTTL(ttl time.Duration) Option {
	return func(s *Session) {
		s.undoTTL = ttl
	}
}

// New builds a session over blobs and loads the library.
func New(ctx context.Context, blobs blob.Store, opts ...Option) (*Session, error) {
	if blobs == nil {
		return nil, errors.New("blob store required")
	}
	s := &Session{
		blobs:     blobs,
		logger:    logging.NewNop(),
		now:       time.Now,
		collation: "ru",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "session")

	var sets pending.SetStore
	undoOpts := []undo.Option{undo.WithClock(s.now), undo.WithLogger(s.logger)}
	if s.state != nil {
		sets = s.state
		undoOpts = append(undoOpts, undo.WithPersister(undo.KVPersister{Store: s.state}))
	}
	registry, err := pending.NewRegistry(ctx, sets, pending.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.registry = registry
	s.undo = undo.NewManager(ctx, s.undoTTL, undoOpts...)
	s.prefs = s.loadPrefs(ctx)

	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory library with the persisted document. A
// malformed document yields an empty library; other read failures are
// returned so a broken connection never overwrites remote data.
func (s *Session) Load(ctx context.Context) error {
	doc, err := s.blobs.Get(ctx)
	if err != nil {
		if !errors.Is(err, library.ErrDataShape) {
			return fmt.Errorf("load library: %w", err)
		}
		logging.WarnWithContext(s.logger, "library document malformed, starting empty", "library_decode",
			logging.String(logging.FieldErrorHint, "inspect or restore the stored document"),
			logging.String(logging.FieldImpact, "the next change overwrites the stored document"),
			logging.Error(err),
		)
		doc = &library.Document{}
	}

	s.mu.Lock()
	s.store = library.FromDocument(doc, library.WithClock(s.now))
	seeded := s.store.EnsureDefaultSections(s.defaults...)
	if s.prefs.Section == "" || !s.store.HasSection(s.prefs.Section) {
		s.prefs.Section = s.store.FirstSection()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("library loaded",
		logging.Int("sections", len(doc.Sections)),
		logging.Bool("seeded", seeded),
	)
	if seeded {
		s.write(ctx, snap)
	}
	return nil
}

// CatalogEnabled reports whether catalog lookups are available.
func (s *Session) CatalogEnabled() bool {
	return s.enricher != nil
}

// Read runs fn with the store under the session lock. fn must not retain
// the store or mutate it.
func (s *Session) Read(fn func(store *library.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// Collation returns the collation language for alphabetical ordering.
func (s *Session) Collation() string {
	return s.collation
}

// ResolveID expands an id or unique id prefix to a full item id.
func (s *Session) ResolveID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", library.ErrItemNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, ok := s.store.FindItem(ref); ok {
		return ref, nil
	}
	var match string
	for _, name := range s.store.SectionNames() {
		items, _ := s.store.Items(name)
		for _, it := range items {
			if !strings.HasPrefix(it.ID, ref) {
				continue
			}
			if match != "" && match != it.ID {
				return "", fmt.Errorf("%q: %w", ref, ErrAmbiguousID)
			}
			match = it.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%q: %w", ref, library.ErrItemNotFound)
	}
	return match, nil
}

// Wait blocks until background hydrations finish.
func (s *Session) Wait() {
	s.hydrations.Wait()
}

// WriteErr returns the most recent persistence failure, or nil once a later
// write succeeded.
func (s *Session) WriteErr() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.writeErr
}

// Close waits for background work and releases owned resources.
func (s *Session) Close() error {
	s.Wait()
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type snapshot struct {
	doc     *library.Document
	version uint64
}

func (s *Session) snapshotLocked() snapshot {
	s.version++
	return snapshot{doc: s.store.Document(), version: s.version}
}

// write persists snap unless a newer snapshot was already written.
func (s *Session) write(ctx context.Context, snap snapshot) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if snap.version <= s.written {
		return
	}
	if err := s.blobs.Put(ctx, snap.doc); err != nil {
		s.writeErr = err
		logging.WarnWithContext(s.logger, "library write failed", "library_persist",
			logging.Uint64("version", snap.version),
			logging.String(logging.FieldErrorHint, "check storage backend connectivity and credentials"),
			logging.String(logging.FieldImpact, "changes since the last successful write are not persisted"),
			logging.Error(err),
		)
		return
	}
	s.written = snap.version
	s.writeErr = nil
}
