package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile // keyed by external user id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{profiles: make(map[string]*Profile)}
}

func (r *InMemoryRepository) Create(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.UserID]; ok {
		return ErrExists
	}

	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *InMemoryRepository) FindByUserID(_ context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryRepository) FindByID(_ context.Context, id string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) SetRole(_ context.Context, userID string, role Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = time.Now()
	return nil
}
