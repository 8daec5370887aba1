package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tubedigest/internal/domain"
)

const defaultBraveAPIBase = "https://api.search.brave.com/res/v1/videos/search"

// BraveProvider discovers uploads through the Brave video search API with a
// site:youtube.com query. Search can surface videos from the wrong channel
// and gives no reliable publish timestamp, so results carry a zero
// PublishedAt and downstream keying falls back to the run date.
type BraveProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewBraveProvider builds the provider; a nil client gets a 30s timeout.
func NewBraveProvider(apiKey string, client *http.Client) *BraveProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &BraveProvider{apiKey: apiKey, baseURL: defaultBraveAPIBase, client: client}
}

// Name identifies the provider in logs and selection.
func (p *BraveProvider) Name() string { return "brave" }

// Available reports whether the API credential is configured.
func (p *BraveProvider) Available() bool { return p.apiKey != "" }

type braveSearchResp struct {
	Results []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"results"`
}

// ChannelVideos searches Brave for the channel's YouTube watch URLs
// published within the window.
func (p *BraveProvider) ChannelVideos(ctx context.Context, channel string, window time.Duration, now time.Time) ([]domain.Video, error) {
	params := url.Values{}
	params.Set("q", strings.TrimSpace("site:youtube.com "+channel))
	params.Set("freshness", freshnessForWindow(window))
	params.Set("count", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("brave api %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var search braveSearchResp
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	seen := map[string]struct{}{}
	videos := make([]domain.Video, 0, len(search.Results))
	for _, item := range search.Results {
		id := ExtractVideoID(strings.TrimSpace(item.URL))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}
		videos = append(videos, domain.Video{
			ID:      id,
			Title:   title,
			URL:     domain.WatchURL(id),
			Channel: channel,
		})
	}
	return videos, nil
}

// freshnessForWindow maps the lookback window onto Brave's freshness buckets:
// pd = 24h, pw = 7d, pm = 31d, py = 1y.
func freshnessForWindow(window time.Duration) string {
	switch {
	case window <= 24*time.Hour:
		return "pd"
	case window <= 7*24*time.Hour:
		return "pw"
	case window <= 31*24*time.Hour:
		return "pm"
	default:
		return "py"
	}
}
