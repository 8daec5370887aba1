package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYouTubeChannelVideos(t *testing.T) {
	t.Parallel()

	var gotHandle, gotChannelID, gotPublishedAfter string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/channels":
			gotHandle = r.URL.Query().Get("forHandle")
			_, _ = w.Write([]byte(`{"items":[{"id":"UCxxxxxxxxxxxxxxxxxxxxxx"}]}`))
		case "/search":
			gotChannelID = r.URL.Query().Get("channelId")
			gotPublishedAfter = r.URL.Query().Get("publishedAfter")
			_, _ = w.Write([]byte(`{"items":[
				{"id":{"videoId":"aaaaaaaaaaa"},"snippet":{"title":"Fresh upload","channelTitle":"Some Channel","publishedAt":"2026-08-29T10:00:00Z"}},
				{"id":{"videoId":""},"snippet":{"title":"playlist noise"}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p := NewYouTubeProvider("yt-key", nil)
	p.baseURL = server.URL

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	videos, err := p.ChannelVideos(context.Background(), "@SomeChannel", 24*time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, "SomeChannel", gotHandle)
	assert.Equal(t, "UCxxxxxxxxxxxxxxxxxxxxxx", gotChannelID)
	assert.Equal(t, "2026-08-29T12:00:00Z", gotPublishedAfter)

	require.Len(t, videos, 1)
	assert.Equal(t, "aaaaaaaaaaa", videos[0].ID)
	assert.Equal(t, "Fresh upload", videos[0].Title)
	assert.Equal(t, "@SomeChannel", videos[0].Channel)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), videos[0].PublishedAt)
}

func TestYouTubeUnknownHandle(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	p := NewYouTubeProvider("yt-key", nil)
	p.baseURL = server.URL

	_, err := p.ChannelVideos(context.Background(), "@Nobody", 24*time.Hour, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no channel found")
}

func TestYouTubeAvailability(t *testing.T) {
	t.Parallel()

	assert.True(t, NewYouTubeProvider("key", nil).Available())
	assert.False(t, NewYouTubeProvider("", nil).Available())
}
