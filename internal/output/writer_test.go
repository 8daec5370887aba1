package output

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedigest/internal/config"
	"tubedigest/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestChannelBase(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"@SomeChannel":   "SomeChannel",
		"Some Channel":   "Some_Channel",
		"weird/../name":  "weird_.._name",
		"---":            "single",
		"":               "single",
		"UCabc123":       "UCabc123",
		"  spaced out  ": "spaced_out",
	}
	for in, want := range cases {
		assert.Equal(t, want, ChannelBase(in), "input %q", in)
	}
}

func TestAppendLedgers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := NewWriter(root, config.DeliveryConfig{}, discardLogger())

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	video := domain.Video{ID: "vid00000001", Title: "First", URL: "https://youtu.be/vid00000001", Channel: "@Chan"}
	transcript := domain.Transcript{Text: "hello transcript"}
	summary := domain.Summary{Body: "a summary"}

	require.NoError(t, w.Append(video, transcript, summary, day))

	video2 := video
	video2.ID = "vid00000002"
	video2.Title = "Second"
	require.NoError(t, w.Append(video2, transcript, summary, day))

	tx, err := os.ReadFile(filepath.Join(root, "transcripts", "Chan_2026_08_30.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(tx), "First")
	assert.Contains(t, string(tx), "Second")
	assert.Equal(t, 2, strings.Count(string(tx), strings.Repeat("-", 80)))

	sm, err := os.ReadFile(filepath.Join(root, "summaries", "Chan_2026_08_30.md"))
	require.NoError(t, err)
	assert.Contains(t, string(sm), "## First")
	assert.Contains(t, string(sm), "## Second")
	assert.Contains(t, string(sm), "a summary")
}

func TestRenderDocumentsTogglesFormats(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := NewWriter(root, config.DeliveryConfig{TxtDoc: true, HTMLDoc: true}, discardLogger())

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	video := domain.Video{ID: "vid00000001", Title: "T", URL: "u", Channel: "@Chan"}

	paths, err := w.RenderDocuments(video, domain.Summary{Body: "| A | B |\n|---|---|\n| 1 | 2 |"}, day)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(root, "documents", "Chan_2026_08_30_vid00000001.txt"), paths[0])
	assert.Equal(t, filepath.Join(root, "documents", "Chan_2026_08_30_vid00000001.html"), paths[1])

	txt, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	for _, token := range []string{"A", "B", "1", "2"} {
		assert.Contains(t, string(txt), token)
	}

	htmlDoc, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(htmlDoc), "<table>")
}

func TestRenderDocumentsNothingEnabled(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir(), config.DeliveryConfig{}, discardLogger())
	video := domain.Video{ID: "vid00000001", Title: "T", URL: "u"}

	paths, err := w.RenderDocuments(video, domain.Summary{Body: "x"}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, paths)
}
