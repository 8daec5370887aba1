package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tubedigest/internal/config"
	"tubedigest/internal/domain"
	"tubedigest/internal/ports"
)

// maxTranscriptRunes caps the transcript sent to the model.
const maxTranscriptRunes = 150_000

// GeminiClient implements ports.Summarizer backed by the Gemini
// generateContent API.
type GeminiClient struct {
	endpoint   string
	model      string
	apiKey     string
	prompt     string
	httpClient *http.Client
}

var _ ports.Summarizer = (*GeminiClient)(nil)

// NewGeminiClient builds a client from configuration.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		prompt:   cfg.Prompt,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize sends the transcript with the summarization prompt and returns
// the model's markdown-ish digest. Any failure is terminal for the item.
func (c *GeminiClient) Summarize(ctx context.Context, video domain.Video, transcript domain.Transcript) (domain.Summary, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.Summary{}, fmt.Errorf("gemini client misconfigured")
	}
	text := strings.TrimSpace(transcript.Text)
	if text == "" {
		return domain.Summary{}, fmt.Errorf("empty transcript for %s", video.ID)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{
			Text: c.prompt + "\n\n---\n\n" + truncateRunes(text, maxTranscriptRunes),
		}}}},
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Summary{}, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return domain.Summary{}, fmt.Errorf("decode gemini response: %w", err)
	}

	summary := extractText(gen)
	if summary == "" {
		return domain.Summary{}, fmt.Errorf("gemini returned empty summary")
	}
	return domain.Summary{VideoID: video.ID, Body: summary}, nil
}

func extractText(gen generateResponse) string {
	var sb strings.Builder
	for _, cand := range gen.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break
	}
	return strings.TrimSpace(sb.String())
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
