package profile

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests. GetOrCreate is atomic
// under the mutex, giving the same race behavior as the Postgres
// ON CONFLICT path.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryStore) GetByEmail(_ context.Context, email string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetOrCreate(_ context.Context, id, email string, d Defaults) (*Profile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.profiles[id]; ok {
		return &p, false, nil
	}

	now := time.Now()
	p := Profile{
		ID:        id,
		Email:     email,
		Role:      d.Role,
		Status:    d.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.profiles[id] = p
	return &p, true, nil
}

// Put replaces a profile wholesale. Test helper for arranging existing
// account states (approved, rejected, linked assistant).
func (m *MemoryStore) Put(p Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// Count reports the number of stored rows.
func (m *MemoryStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}
