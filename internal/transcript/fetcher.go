package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tubedigest/internal/domain"
	"tubedigest/internal/ports"
)

// CaptionSource is the primary transcript provider.
type CaptionSource interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// SpeechToText is the optional fallback provider.
type SpeechToText interface {
	Transcribe(ctx context.Context, videoID string) (string, error)
}

// Fetcher implements ports.TranscriptFetcher: captions first, speech-to-text
// only when captions are genuinely absent and the fallback is enabled.
type Fetcher struct {
	captions CaptionSource
	fallback SpeechToText // nil when the fallback mode is off
	logger   *slog.Logger
}

var _ ports.TranscriptFetcher = (*Fetcher)(nil)

// NewFetcher wires the providers; fallback may be nil.
func NewFetcher(captions CaptionSource, fallback SpeechToText, logger *slog.Logger) *Fetcher {
	return &Fetcher{captions: captions, fallback: fallback, logger: logger}
}

// Fetch returns the transcript, tagged with the provider that produced it.
func (f *Fetcher) Fetch(ctx context.Context, video domain.Video) (domain.Transcript, error) {
	text, err := f.captions.Transcript(ctx, video.ID)
	if err == nil {
		return domain.Transcript{VideoID: video.ID, Text: text, Origin: domain.OriginCaptions}, nil
	}

	if !errors.Is(err, ErrNoCaptions) {
		return domain.Transcript{}, fmt.Errorf("captions for %s: %w", video.ID, err)
	}
	if f.fallback == nil {
		return domain.Transcript{}, fmt.Errorf("video %s: %w", video.ID, ErrNoCaptions)
	}

	f.logger.Info("no captions, trying speech-to-text", "video", video.ID)
	text, err = f.fallback.Transcribe(ctx, video.ID)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("speech-to-text for %s: %w", video.ID, err)
	}
	return domain.Transcript{VideoID: video.ID, Text: text, Origin: domain.OriginSpeechToText}, nil
}
