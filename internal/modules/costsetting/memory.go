// README: In-memory cost setting store for local runs and tests.
package costsetting

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"loadapp/internal/types"
)

type MemoryStore struct {
	mu       sync.Mutex
	settings map[types.ID]*Setting
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[types.ID]*Setting)}
}

func (m *MemoryStore) List(ctx context.Context, f Filter) ([]*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Setting, 0, len(m.settings))
	for _, setting := range m.settings {
		if f.matches(setting) {
			copied := *setting
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) ApplyPatches(ctx context.Context, patches []Patch) ([]*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate the full batch against copies before touching the live set.
	staged := make([]*Setting, 0, len(patches))
	for _, p := range patches {
		current, ok := m.settings[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: setting %s: %s", ErrValidation, p.ID, ErrNotFound)
		}
		copied := *current
		if err := applyPatch(&copied, p); err != nil {
			return nil, err
		}
		copied.LastUpdated = time.Now().UTC()
		staged = append(staged, &copied)
	}

	out := make([]*Setting, 0, len(staged))
	for _, setting := range staged {
		m.settings[setting.ID] = setting
		copied := *setting
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MemoryStore) Replace(ctx context.Context, settings []*Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = make(map[types.ID]*Setting, len(settings))
	for _, setting := range settings {
		copied := *setting
		m.settings[setting.ID] = &copied
	}
	return nil
}

func (m *MemoryStore) MarkUsed(ctx context.Context, ids []types.ID, impact float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range ids {
		setting, ok := m.settings[id]
		if !ok {
			continue
		}
		n := float64(setting.Usage.UsageCount)
		setting.Usage.AverageImpact = (setting.Usage.AverageImpact*n + impact) / (n + 1)
		setting.Usage.UsageCount++
		setting.Usage.LastUsed = &now
		setting.Usage.ConfidenceScore = min(1.0, setting.Usage.ConfidenceScore+0.01)
	}
	return nil
}
