package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// TesseractEngine shells out to a local tesseract binary.
type TesseractEngine struct {
	binary   string
	language string
}

func NewTesseractEngine(language string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{binary: "tesseract", language: language}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Extract(ctx context.Context, image []byte, _ string) (*Extraction, error) {
	tmp, err := os.CreateTemp("", "menu-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	out, err := exec.CommandContext(ctx, e.binary, tmp.Name(), "stdout", "-l", e.language).Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return nil, ErrNoText
	}
	return &Extraction{Text: text, Language: e.language}, nil
}
