// Package ocr runs the background text extraction for uploaded menu images.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
)

var ErrNoText = errors.New("no text detected")

// Extraction is what an engine read from one image.
type Extraction struct {
	Text     string
	Raw      json.RawMessage
	Language string
}

type Engine interface {
	Name() string
	Extract(ctx context.Context, image []byte, mime string) (*Extraction, error)
}

// NewEngine picks the engine named by cfg.Engine.
func NewEngine(cfg config.OCRConfig, client *http.Client) (Engine, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	switch cfg.Engine {
	case "", "ocrspace":
		if cfg.OCRSpaceAPIKey == "" {
			return nil, errors.New("missing OCRSPACE_API_KEY")
		}
		return NewOCRSpaceEngine(cfg.OCRSpaceURL, cfg.OCRSpaceAPIKey, cfg.Language, client), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("missing GEMINI_API_KEY")
		}
		return NewGeminiEngine("", cfg.GeminiAPIKey, cfg.GeminiModel, client), nil
	case "tesseract":
		return NewTesseractEngine(cfg.Language), nil
	default:
		return nil, fmt.Errorf("unknown OCR_ENGINE %q", cfg.Engine)
	}
}
