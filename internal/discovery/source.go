package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tubedigest/internal/domain"
	"tubedigest/internal/ports"
)

// Source implements ports.VideoSource over an ordered provider list.
// The first available provider serves every configured channel for the whole
// run; a per-channel provider failure skips that channel and continues.
type Source struct {
	providers []Provider
	channels  []string
	window    time.Duration
	logger    *slog.Logger
}

var _ ports.VideoSource = (*Source)(nil)

// NewSource wires the provider chain with the configured channel list.
func NewSource(providers []Provider, channels []string, window time.Duration, logger *slog.Logger) *Source {
	return &Source{
		providers: providers,
		channels:  channels,
		window:    window,
		logger:    logger,
	}
}

// Select returns the provider that will serve this run, or an error when no
// provider has a usable credential.
func (s *Source) Select() (Provider, error) {
	for _, p := range s.providers {
		if p.Available() {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no discovery provider configured: set %s", "YOUTUBE_API_KEY or BRAVE_API_KEY")
}

// FetchRecent discovers uploads from every channel, deduplicated by video ID.
func (s *Source) FetchRecent(ctx context.Context, now time.Time) ([]domain.Video, error) {
	provider, err := s.Select()
	if err != nil {
		return nil, err
	}
	if len(s.channels) == 0 {
		return nil, fmt.Errorf("no channels configured")
	}

	s.logger.Debug("discovering uploads",
		"provider", provider.Name(), "channels", len(s.channels), "window", s.window)

	seen := map[string]struct{}{}
	var all []domain.Video
	for _, channel := range s.channels {
		videos, err := provider.ChannelVideos(ctx, channel, s.window, now)
		if err != nil {
			s.logger.Warn("channel discovery failed, skipping",
				"provider", provider.Name(), "channel", channel, "error", err)
			continue
		}
		if len(videos) == 0 {
			s.logger.Info("no new uploads", "channel", channel)
			continue
		}
		for _, v := range videos {
			if _, dup := seen[v.ID]; dup {
				continue
			}
			seen[v.ID] = struct{}{}
			if v.Channel == "" {
				v.Channel = channel
			}
			all = append(all, v)
		}
	}
	return all, nil
}
