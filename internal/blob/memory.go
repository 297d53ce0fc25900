package blob

import (
	"context"
	"sync"

	"shelf/internal/library"
)

// MemoryStore keeps the document in process. Documents are round-tripped
// through JSON so callers never share state with the store.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
	puts int
	err  error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get(context.Context) (*library.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return library.DecodeDocument(m.data)
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, doc *library.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, err := library.EncodeDocument(doc)
	if err != nil {
		return err
	}
	m.data = data
	m.puts++
	return nil
}

// Puts counts successful writes.
func (m *MemoryStore) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// FailWith makes every call return err until cleared with nil.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}
