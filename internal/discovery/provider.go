package discovery

import (
	"context"
	"regexp"
	"time"

	"tubedigest/internal/domain"
)

// Provider is one discovery backend. Providers are kept in an ordered list;
// the first one whose Available() is true serves every channel for the run.
type Provider interface {
	Name() string
	Available() bool
	ChannelVideos(ctx context.Context, channel string, window time.Duration, now time.Time) ([]domain.Video, error)
}

var (
	videoIDRE      = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`)
	rawIDRE        = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	rawChannelIDRE = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format,
// or accepts a raw ID. Returns "" when nothing ID-shaped is found.
func ExtractVideoID(raw string) string {
	if m := videoIDRE.FindStringSubmatch(raw); len(m) >= 2 {
		return m[1]
	}
	if rawIDRE.MatchString(raw) {
		return raw
	}
	return ""
}
