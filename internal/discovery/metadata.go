package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"tubedigest/internal/domain"
)

const defaultOEmbedURL = "https://www.youtube.com/oembed"

var handleFromURLRE = regexp.MustCompile(`/@([A-Za-z0-9._-]+)`)

// Metadata carries best-effort video details used in explicit-item mode,
// where there is no discovery step to supply them.
type Metadata struct {
	Title         string
	ChannelHandle string
	ChannelTitle  string
	PublishedAt   time.Time
}

// MetadataClient resolves video metadata from oEmbed (keyless) and, when a
// Data API key is present, from videos.list/channels.list for the upload
// time and the channel handle. Every lookup is best-effort.
type MetadataClient struct {
	apiKey    string
	baseURL   string
	oembedURL string
	client    *http.Client
}

// NewMetadataClient builds the client; apiKey may be empty.
func NewMetadataClient(apiKey string, client *http.Client) *MetadataClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &MetadataClient{
		apiKey:    apiKey,
		baseURL:   defaultYouTubeAPIBase,
		oembedURL: defaultOEmbedURL,
		client:    client,
	}
}

// VideoMetadata fills in as much as the configured credentials allow.
func (c *MetadataClient) VideoMetadata(ctx context.Context, videoID string) Metadata {
	var meta Metadata

	if title, authorURL, err := c.oembed(ctx, videoID); err == nil {
		meta.Title = title
		if m := handleFromURLRE.FindStringSubmatch(authorURL); len(m) >= 2 {
			meta.ChannelHandle = "@" + m[1]
		}
	}

	if c.apiKey == "" {
		return meta
	}

	channelID := c.enrichFromVideosList(ctx, videoID, &meta)
	if channelID != "" && meta.ChannelHandle == "" {
		c.enrichHandle(ctx, channelID, &meta)
	}
	return meta
}

// Video builds the domain entity for an explicitly requested video ID.
func (c *MetadataClient) Video(ctx context.Context, videoID string) domain.Video {
	meta := c.VideoMetadata(ctx, videoID)
	title := meta.Title
	if title == "" {
		title = "Video " + videoID
	}
	channel := meta.ChannelHandle
	if channel == "" {
		channel = meta.ChannelTitle
	}
	return domain.Video{
		ID:          videoID,
		Title:       title,
		URL:         domain.WatchURL(videoID),
		Channel:     channel,
		PublishedAt: meta.PublishedAt,
	}
}

func (c *MetadataClient) oembed(ctx context.Context, videoID string) (title, authorURL string, err error) {
	params := url.Values{}
	params.Set("url", domain.WatchURL(videoID))
	params.Set("format", "json")

	var resp struct {
		Title     string `json:"title"`
		AuthorURL string `json:"author_url"`
	}
	if err := c.getJSON(ctx, c.oembedURL, params, &resp); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(resp.Title), strings.TrimSpace(resp.AuthorURL), nil
}

func (c *MetadataClient) enrichFromVideosList(ctx context.Context, videoID string, meta *Metadata) (channelID string) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelID    string `json:"channelId"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/videos", params, &resp); err != nil || len(resp.Items) == 0 {
		return ""
	}

	snippet := resp.Items[0].Snippet
	if t := strings.TrimSpace(snippet.Title); t != "" {
		meta.Title = t
	}
	meta.ChannelTitle = strings.TrimSpace(snippet.ChannelTitle)
	if ts, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
		meta.PublishedAt = ts
	}
	return snippet.ChannelID
}

func (c *MetadataClient) enrichHandle(ctx context.Context, channelID string, meta *Metadata) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", channelID)
	params.Set("key", c.apiKey)

	var resp struct {
		Items []struct {
			Snippet struct {
				CustomURL string `json:"customUrl"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/channels", params, &resp); err != nil || len(resp.Items) == 0 {
		return
	}

	custom := strings.TrimSpace(resp.Items[0].Snippet.CustomURL)
	switch {
	case custom == "":
	case strings.HasPrefix(custom, "@"):
		meta.ChannelHandle = custom
	default:
		if m := handleFromURLRE.FindStringSubmatch(custom); len(m) >= 2 {
			meta.ChannelHandle = "@" + m[1]
		} else if !strings.ContainsAny(custom, "/ ") {
			meta.ChannelHandle = "@" + strings.TrimPrefix(custom, "@")
		}
	}
}

func (c *MetadataClient) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
