package restaurant

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	bySlug map[string]*Restaurant
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{bySlug: make(map[string]*Restaurant)}
}

func (r *InMemoryRepository) List(_ context.Context) ([]*Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Restaurant, 0, len(r.bySlug))
	for _, rest := range r.bySlug {
		cp := *rest
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetBySlug(_ context.Context, slug string) (*Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rest, ok := r.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("slug %q: %w", slug, ErrNotFound)
	}
	cp := *rest
	return &cp, nil
}

func (r *InMemoryRepository) Upsert(_ context.Context, rest *Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bySlug[rest.Slug]; ok {
		rest.ID = existing.ID
		rest.CreatedAt = existing.CreatedAt
	} else {
		if rest.ID == "" {
			rest.ID = uuid.NewString()
		}
		rest.CreatedAt = time.Now()
	}

	cp := *rest
	r.bySlug[rest.Slug] = &cp
	return nil
}
