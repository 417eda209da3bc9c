// README: In-memory route store for local runs and tests.
package route

import (
	"context"
	"sync"

	"loadapp/internal/types"
)

type MemoryStore struct {
	mu     sync.Mutex
	routes map[types.ID]*Route
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{routes: make(map[types.ID]*Route)}
}

func (m *MemoryStore) Create(ctx context.Context, r *Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *r
	m.routes[r.ID] = &copied
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.routes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}
