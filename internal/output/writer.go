package output

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"tubedigest/internal/config"
	"tubedigest/internal/domain"
	"tubedigest/internal/ports"
)

const (
	transcriptsDir = "transcripts"
	summariesDir   = "summaries"
	documentsDir   = "documents"

	dateLayout = "2006_01_02"
)

var transcriptDelimiter = "\n\n" + strings.Repeat("-", 80) + "\n\n"

var unsafeRunsRE = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
var whitespaceRE = regexp.MustCompile(`\s+`)

// Writer maintains the per-(channel,date) append-only ledgers and renders
// the optional standalone documents.
type Writer struct {
	root   string
	docs   config.DeliveryConfig
	logger *slog.Logger
}

var _ ports.OutputWriter = (*Writer)(nil)

// NewWriter roots all output below dataRoot.
func NewWriter(dataRoot string, docs config.DeliveryConfig, logger *slog.Logger) *Writer {
	return &Writer{root: dataRoot, docs: docs, logger: logger}
}

// Append adds one entry per ledger for the video's (channel, date) key:
// the raw transcript to transcripts/<base>_<date>.txt and the summary to
// summaries/<base>_<date>.md. Entries are never rewritten.
func (w *Writer) Append(video domain.Video, transcript domain.Transcript, summary domain.Summary, day time.Time) error {
	base := ChannelBase(video.Channel)
	date := day.Format(dateLayout)

	entry := fmt.Sprintf("%s\n%s\n\n%s%s", video.Title, video.URL, strings.TrimSpace(transcript.Text), transcriptDelimiter)
	if err := w.appendFile(transcriptsDir, base+"_"+date+".txt", entry); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}

	entry = fmt.Sprintf("## %s\n\n%s\n\n%s\n\n---\n\n", video.Title, video.URL, strings.TrimSpace(summary.Body))
	if err := w.appendFile(summariesDir, base+"_"+date+".md", entry); err != nil {
		return fmt.Errorf("append summary: %w", err)
	}
	return nil
}

// RenderDocuments writes the enabled standalone documents for one video and
// returns the paths that rendered. One failing format does not stop the
// others; the joined error reports whatever went wrong.
func (w *Writer) RenderDocuments(video domain.Video, summary domain.Summary, day time.Time) ([]string, error) {
	type format struct {
		enabled bool
		ext     string
		render  func(path string) error
	}

	text := RenderText(summary.Body)
	header := []string{video.URL}
	if video.Channel != "" {
		header = append(header, video.Channel)
	}

	formats := []format{
		{w.docs.TxtDoc, "txt", func(path string) error {
			content := video.Title + "\n" + video.URL + "\n\n" + text
			return os.WriteFile(path, []byte(content), 0o644)
		}},
		{w.docs.HTMLDoc, "html", func(path string) error {
			return os.WriteFile(path, []byte(RenderHTML(summary.Body, video.Title, header)), 0o644)
		}},
		{w.docs.PDFDoc, "pdf", func(path string) error {
			return WritePDF(text, video.Title, path)
		}},
		{w.docs.DocxDoc, "docx", func(path string) error {
			return WriteDocx(text, video.Title, path)
		}},
	}

	stem := fmt.Sprintf("%s_%s_%s", ChannelBase(video.Channel), day.Format(dateLayout), video.ID)
	dir := filepath.Join(w.root, documentsDir)

	var paths []string
	var errs []error
	for _, f := range formats {
		if !f.enabled {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return paths, fmt.Errorf("create documents dir: %w", err)
		}
		path := filepath.Join(dir, stem+"."+f.ext)
		if err := f.render(path); err != nil {
			w.logger.Warn("document render failed", "format", f.ext, "video", video.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func (w *Writer) appendFile(dir, name, entry string) error {
	full := filepath.Join(w.root, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	file, err := os.OpenFile(filepath.Join(full, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ChannelBase sanitizes a channel identifier into a filename base. An empty
// channel (explicit-item mode with no resolvable metadata) becomes "single".
func ChannelBase(channel string) string {
	s := strings.TrimPrefix(strings.TrimSpace(channel), "@")
	s = whitespaceRE.ReplaceAllString(s, "_")
	s = unsafeRunsRE.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._-")
	if s == "" {
		return "single"
	}
	return s
}
