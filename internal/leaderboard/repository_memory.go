package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*Entry // keyed by profile id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]*Entry)}
}

// Put seeds or replaces a row. Ranks are left as given until Recompute.
func (r *InMemoryRepository) Put(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.entries[e.UserID] = &e
}

// AddPoints bumps a profile's total, creating the row when missing.
func (r *InMemoryRepository) AddPoints(profileID string, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[profileID]
	if !ok {
		e = &Entry{ID: uuid.NewString(), UserID: profileID}
		r.entries[profileID] = e
	}
	e.TotalKarma += points
	e.UpdatedAt = time.Now()
}

func (r *InMemoryRepository) Top(_ context.Context, limit int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) ForProfile(_ context.Context, profileID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[profileID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *InMemoryRepository) Recompute(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TotalKarma != all[j].TotalKarma {
			return all[i].TotalKarma > all[j].TotalKarma
		}
		return all[i].DisplayName < all[j].DisplayName
	})

	rank := 0
	prev := -1
	changed := 0
	now := time.Now()
	for _, e := range all {
		if e.TotalKarma != prev {
			rank++
			prev = e.TotalKarma
		}
		if e.RankPosition != nil && *e.RankPosition == rank {
			continue
		}
		pos := rank
		e.RankPosition = &pos
		e.UpdatedAt = now
		changed++
	}
	return changed, nil
}

func less(a, b Entry) bool {
	switch {
	case a.RankPosition == nil && b.RankPosition != nil:
		return false
	case a.RankPosition != nil && b.RankPosition == nil:
		return true
	case a.RankPosition != nil && b.RankPosition != nil && *a.RankPosition != *b.RankPosition:
		return *a.RankPosition < *b.RankPosition
	}
	if a.TotalKarma != b.TotalKarma {
		return a.TotalKarma > b.TotalKarma
	}
	return a.DisplayName < b.DisplayName
}
