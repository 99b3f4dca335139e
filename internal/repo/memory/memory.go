package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/netcollector/internal/domain"
	"github.com/hamed0406/netcollector/internal/repo"
)

const defaultCapacity = 100

// Store is an in-memory SweepStore holding the last Capacity summaries in a
// ring.
type Store struct {
	mu    sync.RWMutex
	items []domain.Sweep
	head  int
	count int
}

func New(capacity int) *Store {
	if capacity < 1 {
		capacity = defaultCapacity
	}
	return &Store{items: make([]domain.Sweep, capacity)}
}

func (m *Store) Record(ctx context.Context, s domain.Sweep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[m.head] = s
	m.head = (m.head + 1) % len(m.items)
	if m.count < len(m.items) {
		m.count++
	}
	return nil
}

func (m *Store) Latest(ctx context.Context) (*domain.Sweep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.count == 0 {
		return nil, nil
	}
	s := m.items[(m.head-1+len(m.items))%len(m.items)]
	return &s, nil
}

func (m *Store) Recent(ctx context.Context, n int) ([]domain.Sweep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || n > m.count {
		n = m.count
	}
	out := make([]domain.Sweep, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, m.items[(m.head-i+len(m.items))%len(m.items)])
	}
	return out, nil
}

var _ repo.SweepStore = (*Store)(nil)
