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

const defaultYouTubeAPIBase = "https://www.googleapis.com/youtube/v3"

// YouTubeProvider discovers uploads through the YouTube Data API v3.
// It resolves the configured @handle to a channel ID, then lists videos
// published inside the lookback window. This is the preferred provider:
// unlike web search it only returns videos actually uploaded by the channel.
type YouTubeProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewYouTubeProvider builds the provider; a nil client gets a 15s timeout.
func NewYouTubeProvider(apiKey string, client *http.Client) *YouTubeProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &YouTubeProvider{apiKey: apiKey, baseURL: defaultYouTubeAPIBase, client: client}
}

// Name identifies the provider in logs and selection.
func (p *YouTubeProvider) Name() string { return "youtube" }

// Available reports whether the API credential is configured.
func (p *YouTubeProvider) Available() bool { return p.apiKey != "" }

type ytChannelsResp struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type ytSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// ChannelVideos lists videos the channel published within the window.
func (p *YouTubeProvider) ChannelVideos(ctx context.Context, channel string, window time.Duration, now time.Time) ([]domain.Video, error) {
	channelID, err := p.channelIDForHandle(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("resolve handle %s: %w", channel, err)
	}
	if channelID == "" {
		return nil, fmt.Errorf("no channel found for handle %s", channel)
	}

	// RFC 3339 with a trailing Z; the API rejects "+00:00" combined with Z.
	publishedAfter := now.UTC().Add(-window).Format("2006-01-02T15:04:05Z")

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", "50")
	params.Set("publishedAfter", publishedAfter)
	params.Set("key", p.apiKey)

	var resp ytSearchResp
	if err := p.getJSON(ctx, p.baseURL+"/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search channel %s: %w", channel, err)
	}

	videos := make([]domain.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		title := strings.TrimSpace(item.Snippet.Title)
		if title == "" {
			title = "Untitled"
		}
		v := domain.Video{
			ID:      item.ID.VideoID,
			Title:   title,
			URL:     domain.WatchURL(item.ID.VideoID),
			Channel: channel,
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.PublishedAt = ts
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func (p *YouTubeProvider) channelIDForHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "", fmt.Errorf("empty channel handle")
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("forHandle", handle)
	params.Set("key", p.apiKey)

	var resp ytChannelsResp
	if err := p.getJSON(ctx, p.baseURL+"/channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].ID, nil
}

func (p *YouTubeProvider) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("youtube api %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
