package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedigest/internal/domain"
)

func TestSplitMessageNoNewline(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 10000)
	chunks := SplitMessage(text, MaxMessageLength)

	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), MaxMessageLength)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessagePrefersNewlineBoundary(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("A", 4000) + "\n" + strings.Repeat("B", 4000)
	chunks := SplitMessage(text, MaxMessageLength)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0], "\n"))
	assert.LessOrEqual(t, len([]rune(chunks[0])), MaxMessageLength)
	assert.LessOrEqual(t, len([]rune(chunks[1])), MaxMessageLength)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessageShortText(t *testing.T) {
	t.Parallel()

	chunks := SplitMessage("hello", MaxMessageLength)
	require.Equal(t, []string{"hello"}, chunks)
}

func TestSplitMessageEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SplitMessage("", MaxMessageLength))
}

func TestSendVideoSummarySingleMessage(t *testing.T) {
	t.Parallel()

	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = append(got, r.Form.Get("text"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClient("token", "42")
	c.baseURL = server.URL

	video := domain.Video{ID: "abc", Title: "A <Title>", URL: "https://www.youtube.com/watch?v=abc12345678"}
	require.NoError(t, c.SendVideoSummary(context.Background(), video, "short summary"))

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "A &lt;Title&gt;")
	assert.Contains(t, got[0], "short summary")
}

func TestSendVideoSummaryChunksOversizedBody(t *testing.T) {
	t.Parallel()

	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = append(got, r.Form.Get("text"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClient("token", "42")
	c.baseURL = server.URL

	body := strings.Repeat("x", 10000)
	video := domain.Video{ID: "abc", Title: "Long", URL: "https://www.youtube.com/watch?v=abc12345678"}
	require.NoError(t, c.SendVideoSummary(context.Background(), video, body))

	// Header first, then three ordered body chunks.
	require.Len(t, got, 4)
	assert.Contains(t, got[0], "<b>Long</b>")
	assert.Equal(t, body, strings.Join(got[1:], ""))
}

func TestSendVideoSummaryServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient("token", "42")
	c.baseURL = server.URL

	video := domain.Video{ID: "abc", Title: "T", URL: "u"}
	err := c.SendVideoSummary(context.Background(), video, "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram error")
}

func TestSendDocument(t *testing.T) {
	t.Parallel()

	var gotChat, gotCaption, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotChat = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")
		_, header, err := r.FormFile("document")
		require.NoError(t, err)
		gotFile = header.Filename
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "summary.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	c := NewClient("token", "42")
	c.baseURL = server.URL

	require.NoError(t, c.SendDocument(context.Background(), path, "caption text"))
	assert.Equal(t, "42", gotChat)
	assert.Equal(t, "caption text", gotCaption)
	assert.Equal(t, "summary.html", gotFile)
}
