package menu

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
)

var (
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// Sniffed content type -> stored extension.
var allowedMime = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
	{"image/heic", ".heic"},
}

// ValidateFileExtension accepts names without an extension; the content
// sniff in DetectImage is authoritative.
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil
	}
	if !allowedExt[ext] {
		return ErrUnsupportedType
	}
	return nil
}

// DetectImage sniffs data and returns its mime type and canonical extension.
func DetectImage(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}

	detected := mimetype.Detect(data)
	for _, a := range allowedMime {
		if detected.Is(a.mime) {
			return a.mime, a.ext, nil
		}
	}
	return detected.String(), "", ErrUnsupportedType
}

// CaptureTime reads EXIF DateTimeOriginal. EXIF carries no zone, so the wall
// clock is interpreted in loc. Returns nil when absent or unreadable.
func CaptureTime(data []byte, loc *time.Location) *time.Time {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	t, err := x.DateTime()
	if err != nil || t.IsZero() {
		return nil
	}

	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return &wall
}
