package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/audit"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/contribution"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/restaurant"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/storage"
)

const anonymousName = "Anonymous"

type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type RestaurantLookup interface {
	GetBySlug(ctx context.Context, slug string) (*restaurant.Restaurant, error)
}

type ContributionRecorder interface {
	RecordUpload(ctx context.Context, u contribution.Upload) (bool, error)
}

type Settings struct {
	Classifier     mealtime.Classifier
	FreshLimit     int
	MaxUploadBytes int64
}

type Service struct {
	repo          Repository
	restaurants   RestaurantLookup
	storage       Storage
	contributions ContributionRecorder
	audit         audit.Recorder
	settings      Settings
	log           *zap.Logger
	now           func() time.Time
}

func NewService(
	repo Repository,
	restaurants RestaurantLookup,
	storage Storage,
	contributions ContributionRecorder,
	auditLog audit.Recorder,
	settings Settings,
	log *zap.Logger,
) *Service {
	if settings.FreshLimit <= 0 {
		settings.FreshLimit = 10
	}
	if settings.MaxUploadBytes <= 0 {
		settings.MaxUploadBytes = 10 << 20
	}
	return &Service{
		repo:          repo,
		restaurants:   restaurants,
		storage:       storage,
		contributions: contributions,
		audit:         auditLog,
		settings:      settings,
		log:           log,
		now:           time.Now,
	}
}

func (s *Service) Classifier() mealtime.Classifier {
	return s.settings.Classifier
}

func (s *Service) MaxUploadBytes() int64 {
	return s.settings.MaxUploadBytes
}

// --------------------------------------------------
// Fresh menus for a restaurant
// --------------------------------------------------
func (s *Service) FreshMenus(ctx context.Context, slug string, groupByMeal bool) (*MenusResult, error) {
	rest, err := s.restaurants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListFresh(ctx, rest.ID, s.settings.FreshLimit)
	if err != nil {
		return nil, apperr.Database("Failed to fetch menu images", err)
	}

	views := make([]MenuView, 0, len(items))
	for _, item := range items {
		views = append(views, s.view(item))
	}

	res := &MenusResult{Restaurant: rest, Menus: views}
	if groupByMeal {
		res.ByMeal = mealtime.GroupByPeriod(s.settings.Classifier, views)
		res.Availability = s.availability(views)
	}
	return res, nil
}

func (s *Service) view(f FreshMenu) MenuView {
	effective := f.Image.EffectiveAt()
	return MenuView{
		MenuImage:          f.Image,
		ImageURL:           s.storage.PublicURL(f.Image.StoragePath),
		EffectiveTimestamp: effective,
		MealPeriod:         s.settings.Classifier.Classify(effective),
		OCRResult:          f.OCR,
		Contributor:        contributorOf(f),
	}
}

func contributorOf(f FreshMenu) Contributor {
	if f.Image.IsAnonymous || f.Image.UploadedBy == nil {
		name := anonymousName
		if f.Image.AnonymousDisplayName != nil && *f.Image.AnonymousDisplayName != "" {
			name = *f.Image.AnonymousDisplayName
		}
		return Contributor{DisplayName: name, IsAnonymous: true}
	}
	if f.Uploader != nil {
		return Contributor{DisplayName: f.Uploader.DisplayName, AvatarURL: f.Uploader.AvatarURL}
	}
	return Contributor{DisplayName: anonymousName}
}

func (s *Service) availability(views []MenuView) *Availability {
	c := s.settings.Classifier
	now := s.now()
	today, yesterday := mealtime.SplitByDay(c, views, now)

	a := &Availability{
		Today:          make(map[mealtime.Period]bool, len(mealtime.Periods)),
		CurrentPeriod:  c.CurrentPeriod(now),
		TodayCount:     len(today),
		YesterdayCount: len(yesterday),
	}
	for _, p := range mealtime.Periods {
		a.Today[p] = false
	}
	for _, v := range today {
		a.Today[v.MealPeriod] = true
	}
	a.HasCurrent = a.Today[a.CurrentPeriod]
	return a
}

// --------------------------------------------------
// Upload
// --------------------------------------------------

type UploadInput struct {
	RestaurantSlug       string
	Filename             string
	File                 io.Reader
	Size                 int64
	PhotoTakenAt         *time.Time
	Anonymous            bool
	AnonymousDisplayName string

	// Uploader is nil for unauthenticated callers.
	Uploader *core.Identity
	// CallerWithoutProfile marks a valid token whose user has not onboarded.
	CallerWithoutProfile bool
}

// Upload stores the object, inserts the row as uploaded and queues it for
// OCR. A failed contribution write is reported as a warning only.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	limit := s.settings.MaxUploadBytes
	if in.File == nil || in.Size == 0 {
		return nil, apperr.Validation("file is required", nil)
	}
	if in.Size > limit {
		return nil, apperr.Validation("file too large", map[string]int64{"max_bytes": limit})
	}
	if err := ValidateFileExtension(in.Filename); err != nil {
		return nil, apperr.Validation("file type not allowed", map[string]string{"filename": in.Filename})
	}

	data, err := io.ReadAll(io.LimitReader(in.File, limit+1))
	if err != nil {
		return nil, apperr.Validation("failed to read file", nil)
	}
	if int64(len(data)) > limit {
		return nil, apperr.Validation("file too large", map[string]int64{"max_bytes": limit})
	}

	mime, ext, err := DetectImage(data)
	if err != nil {
		return nil, apperr.Validation("file type not allowed", map[string]string{"detected": mime})
	}

	rest, err := s.restaurants.GetBySlug(ctx, in.RestaurantSlug)
	if err != nil {
		return nil, err
	}

	captured := in.PhotoTakenAt
	if captured == nil {
		captured = CaptureTime(data, s.settings.Classifier.Location())
	}

	var warnings []string
	anonymous := in.Anonymous || in.Uploader == nil
	if in.CallerWithoutProfile && !in.Anonymous {
		warnings = append(warnings, "profile not found; upload stored anonymously")
	}

	img := &MenuImage{
		RestaurantID: rest.ID,
		Mime:         mime,
		IsAnonymous:  anonymous,
		PhotoTakenAt: captured,
	}
	if anonymous {
		if name := strings.TrimSpace(in.AnonymousDisplayName); name != "" {
			img.AnonymousDisplayName = &name
		}
	} else {
		pid := in.Uploader.ProfileID
		img.UploadedBy = &pid
	}

	key := storage.ObjectKey(rest.Slug, ext)
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mime)
	if err != nil {
		return nil, apperr.External("storage", "failed to upload image", err)
	}
	img.StoragePath = key

	if err := s.repo.Create(ctx, img); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned object after failed insert",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, apperr.Database("Failed to save image record", err)
	}

	if err := s.repo.Transition(ctx, img.ID, StatusUploaded, StatusOCRPending); err != nil {
		s.discard(ctx, img.ID, key)
		return nil, apperr.Database("Failed to queue image for OCR", err)
	}
	img.Status = StatusOCRPending

	effective := img.EffectiveAt()
	recorded := false
	if !anonymous {
		recorded, err = s.contributions.RecordUpload(ctx, contribution.Upload{
			ProfileID:    img.UploadedBy,
			RestaurantID: img.RestaurantID,
			MenuImageID:  img.ID,
			At:           effective,
		})
		if err != nil {
			warnings = append(warnings, "contribution could not be recorded")
		}
	}

	s.log.Info("menu image uploaded",
		zap.String("image_id", img.ID),
		zap.String("restaurant", rest.Slug),
		zap.Bool("anonymous", anonymous),
		zap.Bool("exif_time", in.PhotoTakenAt == nil && captured != nil))

	if warnings == nil {
		warnings = []string{}
	}
	return &UploadResult{
		Image:                img,
		ImageURL:             url,
		Status:               img.Status,
		MealPeriod:           s.settings.Classifier.Classify(effective),
		ContributionRecorded: recorded,
		Warnings:             warnings,
	}, nil
}

// discard removes an upload that never reached ocr_pending. Nothing claims
// or serves such a row, so leaving it would only orphan the object.
func (s *Service) discard(ctx context.Context, imageID, key string) {
	if err := s.repo.Delete(ctx, imageID); err != nil {
		s.log.Warn("stranded image row after failed enqueue",
			zap.String("image_id", imageID),
			zap.Error(err))
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("orphaned object after failed enqueue",
			zap.String("key", key),
			zap.Error(err))
	}
}

// --------------------------------------------------
// Admin delete
// --------------------------------------------------
func (s *Service) DeleteImage(
	ctx context.Context,
	imageID string,
	admin *core.Identity,
	reason string,
) (*DeleteResult, error) {
	img, err := s.repo.Get(ctx, imageID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Image not found")
	}
	if err != nil {
		return nil, apperr.Database("Failed to fetch image", err)
	}

	var warnings []string

	entry := &audit.Entry{
		AdminUserID: admin.ExternalID,
		ActionType:  audit.ActionDeleteImage,
		TargetID:    imageID,
		TargetType:  audit.TargetMenuImage,
		Reason:      reason,
		Metadata: map[string]any{
			"storage_path":  img.StoragePath,
			"restaurant_id": img.RestaurantID,
		},
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.Warn("failed to write audit log",
			zap.String("image_id", imageID),
			zap.Error(err))
		warnings = append(warnings, "audit log not written")
	}

	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		s.log.Warn("failed to delete stored object",
			zap.String("key", img.StoragePath),
			zap.Error(err))
		warnings = append(warnings, "stored object not removed")
	}

	if err := s.repo.Delete(ctx, imageID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Image not found")
		}
		return nil, apperr.Database("Failed to delete image", err)
	}

	s.log.Info("menu image deleted",
		zap.String("image_id", imageID),
		zap.String("admin", admin.ExternalID))

	return &DeleteResult{
		Success:  true,
		Message:  "Image deleted successfully",
		ImageID:  imageID,
		Reason:   reason,
		Warnings: warnings,
	}, nil
}
