package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tubedigest/internal/config"
	"tubedigest/internal/discovery"
	"tubedigest/internal/domain"
	"tubedigest/internal/logging"
	"tubedigest/internal/output"
	"tubedigest/internal/store"
	"tubedigest/internal/summarize"
	"tubedigest/internal/telegram"
	"tubedigest/internal/transcript"
	"tubedigest/internal/usecase"
)

// Application wires configuration to adapters and the pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	source   *discovery.Source
	meta     *discovery.MetadataClient
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	providers := []discovery.Provider{
		discovery.NewYouTubeProvider(cfg.Discovery.YouTubeAPIKey, nil),
		discovery.NewBraveProvider(cfg.Discovery.BraveAPIKey, nil),
		discovery.NewRSSProvider(cfg.Discovery.RSSEnabled, nil),
	}
	source := discovery.NewSource(
		providers,
		cfg.Discovery.Channels,
		time.Duration(cfg.Discovery.LookbackHours)*time.Hour,
		baseLogger.With("component", "discovery"),
	)

	var fallback transcript.SpeechToText
	if cfg.Transcript.WhisperEnabled() {
		fallback = transcript.NewWhisperTranscriber(cfg.Transcript.WhisperModel, nil)
	}
	transcripts := transcript.NewFetcher(
		transcript.NewCaptionClient(nil, cfg.Transcript.Languages),
		fallback,
		baseLogger.With("component", "transcript"),
	)

	processed := store.Load(cfg.Storage.DataRoot, baseLogger.With("component", "store"))
	writer := output.NewWriter(cfg.Storage.DataRoot, cfg.Delivery, baseLogger.With("component", "output"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Transcripts: transcripts,
		Summarizer:  summarize.NewGeminiClient(cfg.Gemini),
		Messenger:   telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
		Store:       processed,
		Output:      writer,
		Delivery:    cfg.Delivery,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		source:   source,
		meta:     discovery.NewMetadataClient(cfg.Discovery.YouTubeAPIKey, nil),
		pipeline: pipeline,
	}
}

// RunChannels executes one channel-discovery pass over the configured
// sources. All validation happens before any network call.
func (a *Application) RunChannels(ctx context.Context) error {
	if err := a.validateChannelMode(); err != nil {
		return err
	}
	_, err := a.pipeline.Run(ctx)
	return err
}

// RunChannelsEvery keeps the process resident and repeats the channel pass on
// the given interval until the context is canceled.
func (a *Application) RunChannelsEvery(ctx context.Context, every time.Duration) error {
	if err := a.validateChannelMode(); err != nil {
		return err
	}
	if every <= 0 {
		return fmt.Errorf("invalid interval %s", every)
	}
	runner := usecase.NewIntervalRunner(a.pipeline, every, a.logger.With("component", "scheduler"))
	return runner.Run(ctx)
}

func (a *Application) validateChannelMode() error {
	if err := a.validateCore(); err != nil {
		return err
	}
	if _, err := a.source.Select(); err != nil {
		return err
	}
	if len(a.cfg.Discovery.Channels) == 0 {
		return fmt.Errorf("no channels configured: set YOUTUBE_CHANNELS=@Channel1,@Channel2")
	}
	return nil
}

// RunVideos processes explicitly named videos (URLs or raw IDs), bypassing
// discovery. Metadata for aggregate keying is resolved best-effort.
func (a *Application) RunVideos(ctx context.Context, args []string) error {
	if err := a.validateCore(); err != nil {
		return err
	}

	var videos []domain.Video
	for _, arg := range args {
		for _, item := range strings.Split(arg, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			id := discovery.ExtractVideoID(item)
			if id == "" {
				return fmt.Errorf("invalid video URL or ID: %s", item)
			}
			videos = append(videos, a.meta.Video(ctx, id))
		}
	}
	if len(videos) == 0 {
		return fmt.Errorf("no videos given")
	}

	a.pipeline.RunVideos(ctx, videos)
	return nil
}

func (a *Application) validateCore() error {
	var missing []string
	if a.cfg.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if a.cfg.Telegram.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if a.cfg.Telegram.ChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
