package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
)

const transcribePrompt = `Transcribe every piece of text on this restaurant menu photo.
Keep one dish per line with its price when shown. Output plain text only.
If the image is not a menu or has no readable text, output nothing.`

// GeminiEngine sends the image inline to a Gemini vision model.
type GeminiEngine struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGeminiEngine(baseURL, apiKey, model string, client *http.Client) *GeminiEngine {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  client,
	}
}

func (g *GeminiEngine) Name() string { return "gemini" }

func (g *GeminiEngine) Extract(ctx context.Context, image []byte, mime string) (*Extraction, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": transcribePrompt},
					{"inline_data": map[string]string{
						"mime_type": mime,
						"data":      base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.1,
			"maxOutputTokens": 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api error: status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("gemini decode response: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, ErrNoText
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrNoText
	}

	return &Extraction{Text: text, Raw: raw}, nil
}
