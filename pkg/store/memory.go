package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/topolayer/pkg/errors"
)

// MemoryStore keeps snapshots in a map.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, s *Snapshot) error {
	if s == nil || s.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[s.ID]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot %q already exists", s.ID)
	}
	cp := *s
	m.snapshots[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Info, error) {
	m.mu.RLock()
	out := make([]Info, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s.Info())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[id]; !ok {
		return notFound(id)
	}
	delete(m.snapshots, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
