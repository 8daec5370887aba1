package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedigest/internal/domain"
)

func TestFeedURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.youtube.com/feeds/videos.xml?channel_id=UCabcdefghijklmnopqrstuv",
		feedURL("UCabcdefghijklmnopqrstuv"))
	assert.Equal(t,
		"https://www.youtube.com/feeds/videos.xml?user=SomeChannel",
		feedURL("@SomeChannel"))
	assert.Equal(t,
		"https://www.youtube.com/feeds/videos.xml?user=legacyname",
		feedURL("legacyname"))
}

func TestRSSAvailability(t *testing.T) {
	t.Parallel()

	assert.True(t, NewRSSProvider(true, nil).Available())
	assert.False(t, NewRSSProvider(false, nil).Available())
}

func TestRSSChannelVideosFiltersByWindow(t *testing.T) {
	t.Parallel()

	feed := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>uploads</title>
  <entry>
    <id>yt:video:aaaaaaaaaaa</id>
    <title>Fresh upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=aaaaaaaaaaa"/>
    <published>2026-08-30T08:00:00+00:00</published>
  </entry>
  <entry>
    <id>yt:video:bbbbbbbbbbb</id>
    <title>Stale upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=bbbbbbbbbbb"/>
    <published>2026-08-20T08:00:00+00:00</published>
  </entry>
</feed>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(feed))
	}))
	defer server.Close()

	p := NewRSSProvider(true, nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	videos, err := fetchFeedVideos(t, p, server.URL, "@SomeChannel", 24*time.Hour, now)
	require.NoError(t, err)

	require.Len(t, videos, 1)
	assert.Equal(t, "aaaaaaaaaaa", videos[0].ID)
	assert.Equal(t, "Fresh upload", videos[0].Title)
	assert.Equal(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), videos[0].PublishedAt)
}

// fetchFeedVideos routes the provider at a local feed server.
func fetchFeedVideos(t *testing.T, p *RSSProvider, serverURL, channel string, window time.Duration, now time.Time) ([]domain.Video, error) {
	t.Helper()
	p.client = &http.Client{
		Transport: rewriteTransport{target: serverURL},
		Timeout:   5 * time.Second,
	}
	return p.ChannelVideos(context.Background(), channel, window, now)
}

type rewriteTransport struct {
	target string
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rewritten, err := http.NewRequestWithContext(req.Context(), req.Method, rt.target, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultTransport.RoundTrip(rewritten)
}
