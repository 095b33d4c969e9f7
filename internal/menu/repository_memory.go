package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	images    map[string]*MenuImage
	results   map[string]*OCRResult
	uploaders map[string]Uploader

	// Injected failures.
	CreateErr     error
	TransitionErr error
	ListErr       error
	DeleteErr     error

	profiles core.ProfileDirectory
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		images:    make(map[string]*MenuImage),
		results:   make(map[string]*OCRResult),
		uploaders: make(map[string]Uploader),
	}
}

// Create keeps a preset CreatedAt so tests can control ingestion order.
func (r *InMemoryRepository) Create(_ context.Context, img *MenuImage) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	img.ID = uuid.NewString()
	img.Status = StatusUploaded
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now()
	}
	img.UpdatedAt = img.CreatedAt

	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (*MenuImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *InMemoryRepository) Transition(_ context.Context, id string, from, to Status) error {
	if r.TransitionErr != nil {
		return r.TransitionErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitionLocked(id, from, to)
}

func (r *InMemoryRepository) transitionLocked(id string, from, to Status) error {
	if err := CheckTransition(from, to); err != nil {
		return err
	}

	img, ok := r.images[id]
	if !ok || img.Status != from {
		return fmt.Errorf("image %s not in %s: %w", id, from, ErrInvalidTransition)
	}
	img.Status = to
	img.UpdatedAt = time.Now()
	return nil
}

// CompleteOCR stores res and moves the image to ocr_done.
func (r *InMemoryRepository) CompleteOCR(id string, res OCRResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.transitionLocked(id, StatusOCRPending, StatusOCRDone); err != nil {
		return err
	}
	res.ImageID = id
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	r.results[id] = &res
	return nil
}

func (r *InMemoryRepository) FailOCR(id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.transitionLocked(id, StatusOCRPending, StatusOCRFailed); err != nil {
		return err
	}
	r.images[id].OCRError = &reason
	return nil
}

// WithProfiles resolves uploaders through dir, the way ListFresh joins
// user_profiles in SQL. Entries set with SetUploader take precedence.
func (r *InMemoryRepository) WithProfiles(dir core.ProfileDirectory) *InMemoryRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = dir
	return r
}

func (r *InMemoryRepository) SetUploader(profileID string, u Uploader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploaders[profileID] = u
}

func (r *InMemoryRepository) ListFresh(ctx context.Context, restaurantID string, limit int) ([]FreshMenu, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []FreshMenu
	for _, img := range r.images {
		if img.RestaurantID != restaurantID || !img.Status.Displayable() {
			continue
		}

		f := FreshMenu{Image: *img}
		if res, ok := r.results[img.ID]; ok {
			cp := *res
			f.OCR = &cp
		}
		if img.UploadedBy != nil {
			u, err := r.uploaderLocked(ctx, *img.UploadedBy)
			if err != nil {
				return nil, err
			}
			f.Uploader = u
		}
		out = append(out, f)
	}

	SortFresh(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) uploaderLocked(ctx context.Context, profileID string) (*Uploader, error) {
	if u, ok := r.uploaders[profileID]; ok {
		return &u, nil
	}
	if r.profiles == nil {
		return nil, nil
	}

	id, err := r.profiles.IdentityByProfileID(ctx, profileID)
	if errors.Is(err, core.ErrNoProfile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load uploader: %w", err)
	}
	return &Uploader{DisplayName: id.DisplayName, AvatarURL: id.AvatarURL}, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return ErrNotFound
	}
	delete(r.images, id)
	delete(r.results, id)
	return nil
}

// ListByStatus returns copies of images in status, oldest first.
func (r *InMemoryRepository) ListByStatus(status Status) []MenuImage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []MenuImage
	for _, img := range r.images {
		if img.Status == status {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
