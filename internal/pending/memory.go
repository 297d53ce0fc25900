package pending

import (
	"context"
	"sync"
)

// MemorySet is an in-process SetStore.
type MemorySet struct {
	mu   sync.Mutex
	sets map[string][]string
}

// NewMemorySet returns an empty MemorySet.
func NewMemorySet() *MemorySet {
	return &MemorySet{sets: make(map[string][]string)}
}

func (m *MemorySet) SetAdd(_ context.Context, set, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sets[set] {
		if existing == member {
			return nil
		}
	}
	m.sets[set] = append(m.sets[set], member)
	return nil
}

func (m *MemorySet) SetRemove(_ context.Context, set, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.sets[set]
	for i, existing := range members {
		if existing == member {
			m.sets[set] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemorySet) SetContains(_ context.Context, set, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sets[set] {
		if existing == member {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemorySet) SetMembers(_ context.Context, set string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sets[set]...), nil
}
