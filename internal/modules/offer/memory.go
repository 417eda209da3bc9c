// README: In-memory offer store with the same CAS semantics as the Postgres store.
package offer

import (
	"context"
	"sort"
	"sync"
	"time"

	"loadapp/internal/types"
)

type MemoryStore struct {
	mu       sync.Mutex
	offers   map[types.ID]*Offer
	versions map[types.ID][]*VersionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		offers:   make(map[types.ID]*Offer),
		versions: make(map[types.ID][]*VersionRecord),
	}
}

func (m *MemoryStore) Create(ctx context.Context, o *Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *o
	m.offers[o.ID] = &copied
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *MemoryStore) List(ctx context.Context, f Filter) ([]*Offer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*Offer
	for _, o := range m.offers {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.RouteID != nil && o.RouteID != *f.RouteID {
			continue
		}
		copied := *o
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (f.Page - 1) * f.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.offers[id]
	if !ok || o.Status != from || o.Version != version {
		return false, nil
	}
	o.Status = to
	o.Version++
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryStore) UpdateMargin(ctx context.Context, id types.ID, margin, finalPrice float64, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.offers[id]
	if !ok || o.Version != version {
		return false, nil
	}
	o.Margin = margin
	o.FinalPrice = finalPrice
	o.Version++
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryStore) AppendVersion(ctx context.Context, rec *VersionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *rec
	m.versions[rec.OfferID] = append(m.versions[rec.OfferID], &copied)
	return nil
}

func (m *MemoryStore) ListVersions(ctx context.Context, id types.ID) ([]*VersionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.versions[id]
	out := make([]*VersionRecord, 0, len(records))
	for _, rec := range records {
		copied := *rec
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
