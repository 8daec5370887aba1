package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"tubedigest/internal/app"
	"tubedigest/internal/config"
	"tubedigest/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	cliApp := &cli.App{
		Name:  "tubedigest",
		Usage: "summarize fresh channel uploads and deliver them to Telegram",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "video",
				Aliases: []string{"v"},
				Usage:   "process specific videos by URL or ID instead of discovering channels (repeatable, comma-splittable)",
			},
			&cli.DurationFlag{
				Name:  "every",
				Usage: "stay resident and repeat the channel pass on this interval (e.g. 6h)",
			},
		},
		Action: func(c *cli.Context) error {
			application := app.New(cfg, logger)
			if videos := c.StringSlice("video"); len(videos) > 0 {
				return application.RunVideos(c.Context, videos)
			}
			if every := c.Duration("every"); every > 0 {
				return application.RunChannelsEvery(c.Context, every)
			}
			return application.RunChannels(c.Context)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
