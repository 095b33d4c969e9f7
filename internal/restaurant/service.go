package restaurant

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// --------------------------------------------------
// List restaurants, optionally with distance from origin
// --------------------------------------------------
func (s *Service) List(ctx context.Context, origin *Point) ([]*Restaurant, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Database("failed to fetch restaurants", err)
	}

	if origin != nil {
		for _, r := range list {
			if r.Latitude == nil || r.Longitude == nil {
				continue
			}
			d := math.Round(HaversineM(*origin, Point{Lat: *r.Latitude, Lng: *r.Longitude}))
			r.DistanceM = &d
		}
	}

	if list == nil {
		list = []*Restaurant{}
	}
	return list, nil
}

// --------------------------------------------------
// Resolve slug
// --------------------------------------------------
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Restaurant, error) {
	r, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Restaurant not found")
	}
	if err != nil {
		return nil, apperr.Database("failed to fetch restaurant", err)
	}
	return r, nil
}

// --------------------------------------------------
// Seed (menuctl)
// --------------------------------------------------
func (s *Service) Seed(ctx context.Context, seeds []SeedRestaurant) (int, error) {
	for _, seed := range seeds {
		if !ValidSlug(seed.Slug) {
			return 0, apperr.Validation("invalid slug", map[string]string{"slug": seed.Slug})
		}
	}

	n := 0
	for _, seed := range seeds {
		r := &Restaurant{
			Name:              seed.Name,
			Location:          seed.Location,
			Slug:              seed.Slug,
			Latitude:          seed.Latitude,
			Longitude:         seed.Longitude,
			DistanceEstimateM: seed.DistanceEstimateM,
		}
		if err := s.repo.Upsert(ctx, r); err != nil {
			return n, apperr.Database("failed to seed restaurant "+seed.Slug, err)
		}
		s.log.Info("restaurant seeded",
			zap.String("slug", r.Slug),
			zap.String("id", r.ID))
		n++
	}
	return n, nil
}
