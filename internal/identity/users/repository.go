package users

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// MemoryRepository keeps accounts for the lifetime of the process. Emails
// are compared case-insensitively.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	key := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return nil, ErrDuplicate
	}
	r.byEmail[key] = *user

	u := *user
	return &u, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
