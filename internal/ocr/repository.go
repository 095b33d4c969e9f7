package ocr

import (
	"context"
	"time"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/menu"
)

// Job is one claimed ocr_pending image.
type Job struct {
	ImageID      string
	RestaurantID string
	StoragePath  string
	Mime         string
	LeaseUntil   time.Time
}

type Repository interface {
	// ClaimNext leases the oldest ocr_pending image whose lease is free.
	// Returns nil, nil when there is nothing to do.
	ClaimNext(ctx context.Context, lease time.Duration) (*Job, error)

	// Complete stores res and moves the image to ocr_done atomically.
	Complete(ctx context.Context, imageID string, res menu.OCRResult) error

	// Fail moves the image to ocr_failed with reason.
	Fail(ctx context.Context, imageID, reason string) error
}
