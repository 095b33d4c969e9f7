package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultOCRSpaceURL = "https://api.ocr.space/parse/image"

// OCRSpaceEngine calls the OCR.space parse endpoint with a base64 data URI.
type OCRSpaceEngine struct {
	endpoint string
	apiKey   string
	language string
	client   *http.Client
}

func NewOCRSpaceEngine(endpoint, apiKey, language string, client *http.Client) *OCRSpaceEngine {
	if endpoint == "" {
		endpoint = defaultOCRSpaceURL
	}
	if language == "" {
		language = "eng"
	}
	return &OCRSpaceEngine{
		endpoint: endpoint,
		apiKey:   apiKey,
		language: language,
		client:   client,
	}
}

func (e *OCRSpaceEngine) Name() string { return "ocrspace" }

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func (e *OCRSpaceEngine) Extract(ctx context.Context, image []byte, mime string) (*Extraction, error) {
	form := url.Values{}
	form.Set("apikey", e.apiKey)
	form.Set("language", e.language)
	form.Set("OCREngine", "2")
	form.Set("detectOrientation", "true")
	form.Set("scale", "true")
	form.Set("isOverlayRequired", "false")
	form.Set("base64Image", "data:"+mime+";base64,"+base64.StdEncoding.EncodeToString(image))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocrspace request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocrspace read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocrspace returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("ocrspace decode response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return nil, fmt.Errorf("ocrspace processing error: %s", errorText(parsed.ErrorMessage))
	}

	var parts []string
	for _, r := range parsed.ParsedResults {
		if t := strings.TrimSpace(r.ParsedText); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil, ErrNoText
	}

	return &Extraction{
		Text:     strings.Join(parts, "\n"),
		Raw:      raw,
		Language: e.language,
	}, nil
}

// errorText flattens ErrorMessage, which OCR.space sends as a string or a
// list of strings.
func errorText(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return "unknown error"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
