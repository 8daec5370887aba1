package ports

import (
	"context"
	"time"

	"tubedigest/internal/domain"
)

// VideoSource discovers fresh uploads for the configured channels.
type VideoSource interface {
	FetchRecent(ctx context.Context, now time.Time) ([]domain.Video, error)
}

// TranscriptFetcher obtains the spoken text of one video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, video domain.Video) (domain.Transcript, error)
}

// Summarizer turns a transcript into a digest via an external model.
type Summarizer interface {
	Summarize(ctx context.Context, video domain.Video, transcript domain.Transcript) (domain.Summary, error)
}

// Messenger delivers summary text and rendered documents to a chat.
type Messenger interface {
	SendVideoSummary(ctx context.Context, video domain.Video, body string) error
	SendDocument(ctx context.Context, path, caption string) error
}

// ProcessedStore records video IDs that completed the pipeline in earlier runs.
type ProcessedStore interface {
	Contains(id string) bool
	Mark(id string)
	Flush() error
}

// OutputWriter appends transcripts and summaries to the per-(channel,date)
// ledgers and renders optional standalone documents.
type OutputWriter interface {
	Append(video domain.Video, transcript domain.Transcript, summary domain.Summary, day time.Time) error
	RenderDocuments(video domain.Video, summary domain.Summary, day time.Time) ([]string, error)
}
