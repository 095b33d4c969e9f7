package ocr

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLength caps stored OCR text.
const MaxTextLength = 15000

var (
	pageNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^page\s*\d+$`),
		regexp.MustCompile(`^\d+\s*/\s*\d+$`),
	}
	pricePattern  = regexp.MustCompile(`^[₹$€£]?\d*\.?\d+$`)
	spaceRun      = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes engine output before it is stored. Lines shorter than
// three characters are dropped unless they look like a price.
func CleanText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "�", "")
	text = strings.ReplaceAll(text, "\f", "\n")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if isNoise(line) {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.Join(kept, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	return truncateAtParagraph(text, MaxTextLength)
}

func isNoise(line string) bool {
	if line == "" {
		return false
	}
	for _, p := range pageNumberPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return len([]rune(line)) < 3 && !pricePattern.MatchString(line)
}

// truncateAtParagraph cuts at the last paragraph break past the midpoint
// when text exceeds limit bytes, never splitting a rune.
func truncateAtParagraph(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	end := limit
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if idx := strings.LastIndex(cut, "\n\n"); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut
}
