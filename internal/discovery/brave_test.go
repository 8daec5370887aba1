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

func TestBraveChannelVideos(t *testing.T) {
	t.Parallel()

	var gotQuery, gotFreshness, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotFreshness = r.URL.Query().Get("freshness")
		gotToken = r.Header.Get("X-Subscription-Token")
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://www.youtube.com/watch?v=aaaaaaaaaaa","title":"First"},
			{"url":"https://youtu.be/aaaaaaaaaaa","title":"First again"},
			{"url":"https://www.youtube.com/watch?v=bbbbbbbbbbb","title":""},
			{"url":"https://example.com/unrelated","title":"Noise"}
		]}`))
	}))
	defer server.Close()

	p := NewBraveProvider("brave-key", nil)
	p.baseURL = server.URL

	videos, err := p.ChannelVideos(context.Background(), "@SomeChannel", 24*time.Hour, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "site:youtube.com @SomeChannel", gotQuery)
	assert.Equal(t, "pd", gotFreshness)
	assert.Equal(t, "brave-key", gotToken)

	require.Len(t, videos, 2)
	assert.Equal(t, "aaaaaaaaaaa", videos[0].ID)
	assert.Equal(t, "First", videos[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaaaaaaaaaa", videos[0].URL)
	assert.Equal(t, "@SomeChannel", videos[0].Channel)
	assert.True(t, videos[0].PublishedAt.IsZero())
	assert.Equal(t, "Untitled", videos[1].Title)
}

func TestBraveChannelVideosAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewBraveProvider("brave-key", nil)
	p.baseURL = server.URL

	_, err := p.ChannelVideos(context.Background(), "@c", 24*time.Hour, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brave api")
}

func TestFreshnessForWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pd", freshnessForWindow(6*time.Hour))
	assert.Equal(t, "pd", freshnessForWindow(24*time.Hour))
	assert.Equal(t, "pw", freshnessForWindow(72*time.Hour))
	assert.Equal(t, "pm", freshnessForWindow(14*24*time.Hour))
	assert.Equal(t, "py", freshnessForWindow(90*24*time.Hour))
}
