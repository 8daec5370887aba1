package discovery

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"tubedigest/internal/domain"
)

// RSSProvider reads a channel's upload feed. It needs no credential and is
// therefore an explicit opt-in, last in the provider order: without the
// opt-in, channel mode still demands an API credential.
//
// Channel entries that are UC... IDs map to feeds/videos.xml?channel_id=;
// anything else is treated as a legacy username feed, which only works for
// channels that still have one.
type RSSProvider struct {
	enabled bool
	client  *http.Client
	parser  *gofeed.Parser
}

// NewRSSProvider builds the provider; a nil client gets a 15s timeout.
func NewRSSProvider(enabled bool, client *http.Client) *RSSProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RSSProvider{enabled: enabled, client: client, parser: gofeed.NewParser()}
}

// Name identifies the provider in logs and selection.
func (p *RSSProvider) Name() string { return "rss" }

// Available reports whether the opt-in flag is set.
func (p *RSSProvider) Available() bool { return p.enabled }

// ChannelVideos pulls the channel feed and keeps entries inside the window.
func (p *RSSProvider) ChannelVideos(ctx context.Context, channel string, window time.Duration, now time.Time) ([]domain.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL(channel), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	feed, err := p.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	cutoff := now.Add(-window)
	videos := make([]domain.Video, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.PublishedParsed == nil || item.PublishedParsed.Before(cutoff) {
			continue
		}
		id := ExtractVideoID(item.Link)
		if id == "" {
			// Entry IDs look like "yt:video:VIDEOID".
			id = strings.TrimPrefix(item.GUID, "yt:video:")
			if !rawIDRE.MatchString(id) {
				continue
			}
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}
		videos = append(videos, domain.Video{
			ID:          id,
			Title:       title,
			URL:         domain.WatchURL(id),
			Channel:     channel,
			PublishedAt: item.PublishedParsed.UTC(),
		})
	}
	return videos, nil
}

func feedURL(channel string) string {
	channel = strings.TrimSpace(channel)
	if strings.HasPrefix(channel, "UC") && rawChannelIDRE.MatchString(channel) {
		return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channel
	}
	return "https://www.youtube.com/feeds/videos.xml?user=" + strings.TrimPrefix(channel, "@")
}
