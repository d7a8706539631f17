package metadata

import (
	"context"
	"sync"
)

// MemoryRepository is a process-local Repository. Nothing survives a restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (r *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = append([]byte{}, value...)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
