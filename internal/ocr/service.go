package ocr

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/menu"
)

type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type Service struct {
	repo    Repository
	store   Downloader
	engine  Engine
	lease   time.Duration
	timeout time.Duration
	log     *zap.Logger
}

func NewService(
	repo Repository,
	store Downloader,
	engine Engine,
	lease time.Duration,
	timeout time.Duration,
	log *zap.Logger,
) *Service {
	if lease <= 0 {
		lease = 2 * time.Minute
	}
	return &Service{
		repo:    repo,
		store:   store,
		engine:  engine,
		lease:   lease,
		timeout: timeout,
		log:     log,
	}
}

// ProcessOne claims one pending image and drives it to a terminal state.
// It reports false when the queue was empty. Engine and download failures
// mark the image ocr_failed and are not returned; only repository errors are.
func (s *Service) ProcessOne(ctx context.Context) (bool, error) {
	job, err := s.repo.ClaimNext(ctx, s.lease)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	log := s.log.With(
		zap.String("image_id", job.ImageID),
		zap.String("engine", s.engine.Name()))

	data, err := s.store.Download(ctx, job.StoragePath)
	if err != nil {
		log.Warn("ocr download failed", zap.String("key", job.StoragePath), zap.Error(err))
		return true, s.fail(ctx, job, fmt.Sprintf("download failed: %v", err))
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	ext, err := s.engine.Extract(runCtx, data, job.Mime)
	elapsed := time.Since(started)
	if err != nil {
		if ctx.Err() != nil {
			// Shutting down: leave the lease to expire so another worker retries.
			return true, ctx.Err()
		}
		log.Warn("ocr extraction failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return true, s.fail(ctx, job, err.Error())
	}

	text := CleanText(ext.Text)
	if text == "" {
		return true, s.fail(ctx, job, ErrNoText.Error())
	}

	err = s.repo.Complete(ctx, job.ImageID, menu.OCRResult{
		Text:             text,
		RawJSON:          ext.Raw,
		Language:         ext.Language,
		Engine:           s.engine.Name(),
		ProcessingTimeMS: int(elapsed.Milliseconds()),
	})
	if err != nil {
		return true, fmt.Errorf("complete ocr for %s: %w", job.ImageID, err)
	}

	log.Info("ocr done",
		zap.Int("text_length", len(text)),
		zap.Duration("elapsed", elapsed))
	return true, nil
}

func (s *Service) fail(ctx context.Context, job *Job, reason string) error {
	if err := s.repo.Fail(ctx, job.ImageID, reason); err != nil {
		return fmt.Errorf("fail ocr for %s: %w", job.ImageID, err)
	}
	return nil
}
