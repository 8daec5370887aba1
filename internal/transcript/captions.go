package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tubedigest/internal/domain"
)

// ErrNoCaptions marks the one transcript failure the speech-to-text fallback
// may cover: the video simply has no usable caption track. Everything else
// (network, rate limit, access denied) stays terminal for the item.
var ErrNoCaptions = errors.New("no captions available")

const (
	playerResponseMarker = "ytInitialPlayerResponse = "
	watchPageLimit       = 6 * 1024 * 1024
	timedTextLimit       = 512 * 1024
	captionsUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// CaptionClient fetches transcripts from YouTube's own caption tracks:
// watch page HTML → ytInitialPlayerResponse JSON → caption track URL →
// timedtext XML.
type CaptionClient struct {
	client *http.Client
	langs  []string
}

// NewCaptionClient builds the client; a nil client gets a 20s timeout.
func NewCaptionClient(client *http.Client, langs []string) *CaptionClient {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	return &CaptionClient{client: client, langs: langs}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript returns the concatenated caption text for a video.
func (c *CaptionClient) Transcript(ctx context.Context, videoID string) (string, error) {
	player, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return "", err
	}

	if player.Captions == nil {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Status != "" && player.PlayabilityStatus.Status != "OK" {
			return "", fmt.Errorf("video not playable (%s): %s",
				player.PlayabilityStatus.Status, player.PlayabilityStatus.Reason)
		}
		return "", ErrNoCaptions
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", ErrNoCaptions
	}

	track := pickTrack(tracks, c.langs)
	text, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoCaptions
	}
	return text, nil
}

func (c *CaptionClient) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, domain.WatchURL(videoID), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", captionsUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, watchPageLimit))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := strings.Index(string(body), playerResponseMarker)
	if idx < 0 {
		return nil, fmt.Errorf("player response not found in watch page")
	}
	raw := extractJSON(body[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, fmt.Errorf("player response JSON is malformed")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	return &player, nil
}

func (c *CaptionClient) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", captionsUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, timedTextLimit))
	if err != nil {
		return "", fmt.Errorf("read timedtext: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := cleanCaptionLine(line.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// pickTrack prefers a manual track in a requested language, then an
// auto-generated one, then any English track, then whatever is first.
func pickTrack(tracks []captionTrack, langs []string) captionTrack {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

// cleanCaptionLine strips markup and entities that YouTube embeds in caption
// lines (<b>, <i>, &amp;#39; and friends).
func cleanCaptionLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// extractJSON returns the balanced {...} object at the start of data,
// respecting string literals and escapes.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i, b := range data {
		if escaped {
			escaped = false
			continue
		}
		switch b {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return data[:i+1]
				}
			}
		}
	}
	return nil
}
