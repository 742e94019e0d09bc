package cart

import (
	"context"
	"sync"
)

// Repository persists the cart lines between restarts. Load returns an empty
// slice when nothing has been saved yet.
type Repository interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// MemoryRepository keeps the cart in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	lines []Line
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Load(context.Context) ([]Line, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Line(nil), m.lines...), nil
}

func (m *MemoryRepository) Save(_ context.Context, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append([]Line(nil), lines...)
	return nil
}
