package undo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shelf/internal/logging"
)

// DefaultTTL is the undo window.
const DefaultTTL = 10 * time.Second

// ErrNothingToUndo is returned when the slot is empty or expired.
var ErrNothingToUndo = errors.New("nothing to undo")

// Persister keeps the slot outside the process.
type Persister interface {
	Load(ctx context.Context) (*Entry, error)
	Save(ctx context.Context, entry *Entry) error
	Clear(ctx context.Context) error
}

// Manager owns the single undo slot.
type Manager struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	slot    *Entry
	timer   *time.Timer
	persist Persister
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithPersister stores the slot through p.
func WithPersister(p Persister) Option {
	return func(m *Manager) {
		m.persist = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager builds a manager. ttl <= 0 uses DefaultTTL. With a persister the
// stored slot is loaded when still fresh.
func NewManager(ctx context.Context, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{ttl: ttl, now: time.Now, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "undo")
	if m.persist != nil {
		entry, err := m.persist.Load(ctx)
		if err != nil {
			m.logger.Debug("load undo slot failed", logging.Error(err))
		}
		if entry != nil && m.now().Before(entry.ExpiresAt) {
			m.slot = entry
			m.arm(entry.ExpiresAt.Sub(m.now()))
		}
	}
	return m
}

// TTL returns the undo window.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Record replaces the slot with entry and starts its expiry window.
func (m *Manager) Record(ctx context.Context, entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ExpiresAt = m.now().Add(m.ttl)
	m.slot = &entry
	m.arm(m.ttl)
	m.save(ctx, m.slot)
	m.logger.Debug("undo recorded", logging.UndoKind(string(entry.Kind)))
}

// Peek returns the live entry without consuming it.
func (m *Manager) Peek() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.liveLocked() {
		return Entry{}, false
	}
	return *m.slot, true
}

// Take removes and returns the live entry. The slot is empty afterwards
// either way.
func (m *Manager) Take(ctx context.Context) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.liveLocked()
	entry := m.slot
	m.clearLocked(ctx)
	if !live {
		return Entry{}, ErrNothingToUndo
	}
	return *entry, nil
}

// Discard empties the slot.
func (m *Manager) Discard(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(ctx)
}

func (m *Manager) liveLocked() bool {
	if m.slot == nil {
		return false
	}
	if !m.now().Before(m.slot.ExpiresAt) {
		m.slot = nil
		return false
	}
	return true
}

func (m *Manager) clearLocked(ctx context.Context) {
	m.slot = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.persist != nil {
		if err := m.persist.Clear(ctx); err != nil {
			m.logger.Debug("clear undo slot failed", logging.Error(err))
		}
	}
}

func (m *Manager) arm(d time.Duration) {
	if m.timer != nil {
		m.timer.Stop()
	}
	current := m.slot
	m.timer = time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.slot == current {
			m.slot = nil
			m.timer = nil
		}
	})
}

func (m *Manager) save(ctx context.Context, entry *Entry) {
	if m.persist == nil {
		return
	}
	if err := m.persist.Save(ctx, entry); err != nil {
		logging.WarnWithContext(m.logger, "persist undo slot failed", "undo_persist",
			logging.String(logging.FieldErrorHint, "check state database permissions"),
			logging.String(logging.FieldImpact, "undo only available in this process"),
			logging.Error(err),
		)
	}
}
