package contribution

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
)

type Service struct {
	repo       Repository
	classifier mealtime.Classifier
	basePoints int
	log        *zap.Logger
	now        func() time.Time
}

func NewService(
	repo Repository,
	classifier mealtime.Classifier,
	basePoints int,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		basePoints: basePoints,
		log:        log,
		now:        time.Now,
	}
}

// RecordUpload appends one upload contribution. Anonymous uploads are
// skipped and report recorded=false with a nil error.
func (s *Service) RecordUpload(ctx context.Context, u Upload) (bool, error) {
	if u.Anonymous || u.ProfileID == nil || *u.ProfileID == "" {
		s.log.Debug("skipping contribution for anonymous upload",
			zap.String("menu_image_id", u.MenuImageID))
		return false, nil
	}

	// Date and meal session come from the same instant.
	at := u.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(s.classifier.Location())

	restaurantID := u.RestaurantID
	imageID := u.MenuImageID
	c := &Contribution{
		UserID:           *u.ProfileID,
		RestaurantID:     &restaurantID,
		MenuImageID:      &imageID,
		ContributionType: TypeUpload,
		ContributionDate: at.Format(time.DateOnly),
		PointsEarned:     s.basePoints,
		MealSession:      s.classifier.Classify(at),
	}

	if err := s.repo.Append(ctx, c); err != nil {
		s.log.Warn("failed to record contribution",
			zap.String("profile_id", c.UserID),
			zap.String("menu_image_id", imageID),
			zap.Error(err))
		return false, apperr.Database("failed to record contribution", err)
	}

	s.log.Info("contribution recorded",
		zap.String("profile_id", c.UserID),
		zap.Int("points", c.PointsEarned),
		zap.String("meal_session", string(c.MealSession)))
	return true, nil
}

func (s *Service) ListForProfile(ctx context.Context, profileID string) ([]Contribution, error) {
	list, err := s.repo.ListByUser(ctx, profileID)
	if err != nil {
		return nil, apperr.Database("failed to fetch contributions", err)
	}
	if list == nil {
		list = []Contribution{}
	}
	return list, nil
}
