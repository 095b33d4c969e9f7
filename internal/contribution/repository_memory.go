package contribution

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu   sync.RWMutex
	rows []Contribution

	// OnAppend runs after a successful append, standing in for the rank
	// refresh the Postgres repository does in-transaction.
	OnAppend func(Contribution)
	Err      error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(_ context.Context, c *Contribution) error {
	if r.Err != nil {
		return r.Err
	}

	r.mu.Lock()
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	r.rows = append(r.rows, *c)
	r.mu.Unlock()

	if r.OnAppend != nil {
		r.OnAppend(*c)
	}
	return nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, profileID string) ([]Contribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Contribution
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == profileID {
			out = append(out, r.rows[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
