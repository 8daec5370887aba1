package domain

import "time"

// Video is a core entity describing one discovered upload.
type Video struct {
	ID          string
	Title       string
	URL         string
	Channel     string
	PublishedAt time.Time // zero when the provider gave no timestamp
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// PublishedDate resolves the date used for aggregate keying.
// Falls back to the supplied "now" in UTC when the provider gave no timestamp.
func (v Video) PublishedDate(now time.Time) time.Time {
	if v.PublishedAt.IsZero() {
		return now.UTC().Truncate(24 * time.Hour)
	}
	return v.PublishedAt.UTC().Truncate(24 * time.Hour)
}

// TranscriptOrigin tags which provider produced the transcript text.
type TranscriptOrigin string

const (
	OriginCaptions     TranscriptOrigin = "captions"
	OriginSpeechToText TranscriptOrigin = "speech-to-text"
)

// Transcript is the spoken text of one video, concatenated to plain text.
type Transcript struct {
	VideoID string
	Text    string
	Origin  TranscriptOrigin
}

// Summary is the model-produced digest of one transcript.
// Body is markdown-ish text that may embed pipe-delimited tables.
type Summary struct {
	VideoID string
	Body    string
}

// SkipReason classifies why a video was left unprocessed in a run.
type SkipReason string

const (
	SkipAlreadyProcessed SkipReason = "already processed"
	SkipTranscript       SkipReason = "transcript unavailable"
	SkipSummarize        SkipReason = "summarization failed"
)

// RunReport accumulates per-run outcome counts for the end-of-run summary.
type RunReport struct {
	Processed int
	Skipped   map[SkipReason]int
}

// NewRunReport builds an empty report.
func NewRunReport() *RunReport {
	return &RunReport{Skipped: map[SkipReason]int{}}
}

// Skip records one skipped video.
func (r *RunReport) Skip(reason SkipReason) {
	r.Skipped[reason]++
}

// TotalSkipped sums skips across all reasons.
func (r *RunReport) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}
