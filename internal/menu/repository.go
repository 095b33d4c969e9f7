package menu

import "context"

// Repository covers the upload side of menu images. OCR claim/complete/fail
// lives in the ocr package against the same table.
type Repository interface {
	// Create inserts img with status uploaded and fills ID and timestamps.
	Create(ctx context.Context, img *MenuImage) error

	Get(ctx context.Context, id string) (*MenuImage, error)

	// Transition moves id from -> to, failing with ErrInvalidTransition when
	// the edge is not allowed or the row is no longer in from.
	Transition(ctx context.Context, id string, from, to Status) error

	// ListFresh returns up to limit ocr_done images of a restaurant, freshest
	// first, with their OCR result and uploader display data.
	ListFresh(ctx context.Context, restaurantID string, limit int) ([]FreshMenu, error)

	// Delete removes the image row; OCR results cascade.
	Delete(ctx context.Context, id string) error
}
