package menu

import (
	"errors"
	"fmt"
)

// Status is the OCR ingestion state of a menu image.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusOCRPending Status = "ocr_pending"
	StatusOCRDone    Status = "ocr_done"
	StatusOCRFailed  Status = "ocr_failed"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// uploaded -> ocr_pending -> ocr_done | ocr_failed. Terminal states have no
// outgoing edges.
var transitions = map[Status][]Status{
	StatusUploaded:   {StatusOCRPending},
	StatusOCRPending: {StatusOCRDone, StatusOCRFailed},
}

func (s Status) Valid() bool {
	switch s {
	case StatusUploaded, StatusOCRPending, StatusOCRDone, StatusOCRFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusOCRDone || s == StatusOCRFailed
}

// Displayable reports whether images in this state may be served to users.
func (s Status) Displayable() bool {
	return s == StatusOCRDone
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition wraps ErrInvalidTransition with the offending edge.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}
