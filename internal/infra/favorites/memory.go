package favorites

import (
	"context"
	"sync"

	"toolsapp/internal/domain"
)

// MemoryStore keeps favorites in process memory. It backs the daemon when no
// favorites path is configured and is handy in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string][]string
	failNext error
}

var _ domain.FavoritesRepository = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string][]string)}
}

func (m *MemoryStore) LoadFavorites(ctx context.Context, profile string) ([]string, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.profiles[profile]...), nil
}

func (m *MemoryStore) SaveFavorites(ctx context.Context, profile string, entries []string) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.profiles[profile] = append([]string{}, entries...)
	return nil
}

// FailNextSave makes the next SaveFavorites call return err.
func (m *MemoryStore) FailNextSave(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}
