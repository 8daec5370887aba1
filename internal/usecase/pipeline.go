package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tubedigest/internal/config"
	"tubedigest/internal/domain"
	"tubedigest/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source      ports.VideoSource
	Transcripts ports.TranscriptFetcher
	Summarizer  ports.Summarizer
	Messenger   ports.Messenger
	Store       ports.ProcessedStore
	Output      ports.OutputWriter
	Delivery    config.DeliveryConfig
	Logger      *slog.Logger
	Now         func() time.Time
}

// Pipeline implements the discover → transcript → summarize → write →
// deliver workflow, one video at a time. Per-video failures are isolated:
// nothing a single video does can abort the run.
type Pipeline struct {
	source      ports.VideoSource
	transcripts ports.TranscriptFetcher
	summarizer  ports.Summarizer
	messenger   ports.Messenger
	store       ports.ProcessedStore
	output      ports.OutputWriter
	delivery    config.DeliveryConfig
	logger      *slog.Logger
	now         func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:      deps.Source,
		transcripts: deps.Transcripts,
		summarizer:  deps.Summarizer,
		messenger:   deps.Messenger,
		store:       deps.Store,
		output:      deps.Output,
		delivery:    deps.Delivery,
		logger:      logger,
		now:         now,
	}
}

// Run executes one channel-mode pass: discover fresh uploads, then process
// each one. Discovery-level failures (no provider credential) are the only
// errors that abort the run.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunReport, error) {
	videos, err := p.source.FetchRecent(ctx, p.now())
	if err != nil {
		return nil, fmt.Errorf("discover uploads: %w", err)
	}
	return p.RunVideos(ctx, videos), nil
}

// RunVideos processes an explicit video list, bypassing discovery.
func (p *Pipeline) RunVideos(ctx context.Context, videos []domain.Video) *domain.RunReport {
	report := domain.NewRunReport()
	for _, video := range videos {
		p.process(ctx, video, report)
	}
	p.logger.Info("run complete", "summary", FormatReport(report))
	return report
}

func (p *Pipeline) process(ctx context.Context, video domain.Video, report *domain.RunReport) {
	logger := p.logger.With("video", video.ID, "channel", video.Channel)

	if p.store.Contains(video.ID) {
		logger.Info("skipping already processed")
		report.Skip(domain.SkipAlreadyProcessed)
		return
	}

	transcript, err := p.transcripts.Fetch(ctx, video)
	if err != nil {
		logger.Warn("transcript unavailable, skipping", "error", err)
		report.Skip(domain.SkipTranscript)
		return
	}

	summary, err := p.summarizer.Summarize(ctx, video, transcript)
	if err != nil {
		logger.Warn("summarization failed, skipping", "error", err)
		report.Skip(domain.SkipSummarize)
		return
	}

	day := video.PublishedDate(p.now())
	if err := p.output.Append(video, transcript, summary, day); err != nil {
		logger.Warn("could not append output ledgers", "error", err)
	}

	docs, err := p.output.RenderDocuments(video, summary, day)
	if err != nil {
		logger.Warn("some documents did not render", "error", err)
	}

	p.deliver(ctx, video, summary, docs, logger)

	// Summarization succeeded, so the video counts as processed even when
	// delivery failed; retrying would re-bill the model for nothing.
	p.store.Mark(video.ID)
	if err := p.store.Flush(); err != nil {
		logger.Warn("could not persist processed store, continuing in memory", "error", err)
	}
	report.Processed++
	logger.Info("processed", "origin", transcript.Origin)
}

func (p *Pipeline) deliver(ctx context.Context, video domain.Video, summary domain.Summary, docs []string, logger *slog.Logger) {
	// The HTML document replaces the text message unless the text toggle
	// was set explicitly.
	sendText := p.delivery.TextSummary && (!p.delivery.HTMLDoc || p.delivery.TextExplicit)
	if sendText {
		if err := p.messenger.SendVideoSummary(ctx, video, summary.Body); err != nil {
			logger.Warn("summary delivery failed", "error", err)
		}
	}
	for _, doc := range docs {
		if err := p.messenger.SendDocument(ctx, doc, video.Title); err != nil {
			logger.Warn("document delivery failed", "path", doc, "error", err)
		}
	}
}
