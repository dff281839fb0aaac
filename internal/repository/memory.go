package repository

import (
	"context"
	"sync"

	"github.com/catsfront/catsfront/internal/model"
)

// MemoryStore is an in-memory cat store with the same contract as
// Repository. Ids are assigned from 1 and never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	cats   map[int64]model.Cat
	order  []int64
	nextID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cats:   make(map[int64]model.Cat),
		nextID: 1,
	}
}

// ListCats returns cats in id order.
func (m *MemoryStore) ListCats(ctx context.Context, skip, limit int) ([]model.Cat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cats := []model.Cat{}
	if skip < 0 {
		skip = 0
	}
	for i := skip; i < len(m.order) && len(cats) < limit; i++ {
		cats = append(cats, m.cats[m.order[i]])
	}
	return cats, nil
}

// GetCat retrieves a cat by id.
func (m *MemoryStore) GetCat(ctx context.Context, id int64) (*model.Cat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cat, ok := m.cats[id]
	if !ok {
		return nil, ErrCatNotFound
	}
	return &cat, nil
}

// CreateCat stores a cat under the next id.
func (m *MemoryStore) CreateCat(ctx context.Context, in model.CatInput) (*model.Cat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cat := in.WithID(m.nextID)
	m.nextID++
	m.cats[cat.ID] = *cat
	m.order = append(m.order, cat.ID)
	return cat, nil
}

// UpdateCat replaces the mutable fields of a cat.
func (m *MemoryStore) UpdateCat(ctx context.Context, id int64, in model.CatInput) (*model.Cat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cats[id]; !ok {
		return nil, ErrCatNotFound
	}
	cat := in.WithID(id)
	m.cats[id] = *cat
	return cat, nil
}

// DeleteCat removes a cat by id.
func (m *MemoryStore) DeleteCat(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cats[id]; !ok {
		return ErrCatNotFound
	}
	delete(m.cats, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
