package ocr

import (
	"context"
	"sync"
	"time"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/menu"
)

// InMemoryRepository claims from a menu.InMemoryRepository so uploads made
// through the menu service flow straight into the worker in tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	images *menu.InMemoryRepository
	leases map[string]time.Time
	now    func() time.Time
}

func NewInMemoryRepository(images *menu.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{
		images: images,
		leases: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (r *InMemoryRepository) ClaimNext(_ context.Context, lease time.Duration) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for _, img := range r.images.ListByStatus(menu.StatusOCRPending) {
		if until, ok := r.leases[img.ID]; ok && until.After(now) {
			continue
		}
		until := now.Add(lease)
		r.leases[img.ID] = until
		return &Job{
			ImageID:      img.ID,
			RestaurantID: img.RestaurantID,
			StoragePath:  img.StoragePath,
			Mime:         img.Mime,
			LeaseUntil:   until,
		}, nil
	}
	return nil, nil
}

func (r *InMemoryRepository) Complete(_ context.Context, imageID string, res menu.OCRResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.images.CompleteOCR(imageID, res); err != nil {
		return err
	}
	delete(r.leases, imageID)
	return nil
}

func (r *InMemoryRepository) Fail(_ context.Context, imageID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.images.FailOCR(imageID, reason); err != nil {
		return err
	}
	delete(r.leases, imageID)
	return nil
}
