package transcript

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tubedigest/internal/domain"
)

// CommandRunner abstracts external process execution so the fallback can be
// tested without yt-dlp and whisper installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if len(msg) > 400 {
			msg = msg[:400]
		}
		return fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return nil
}

// WhisperTranscriber implements the speech-to-text fallback: download the
// audio track with yt-dlp, transcribe it with the whisper CLI. This is the
// only component that shells out; both binaries plus ffmpeg must be on PATH.
type WhisperTranscriber struct {
	model  string
	runner CommandRunner
}

// NewWhisperTranscriber builds the fallback with the given model size
// (base, small, medium, ...). A nil runner executes real processes.
func NewWhisperTranscriber(model string, runner CommandRunner) *WhisperTranscriber {
	if model == "" {
		model = "base"
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &WhisperTranscriber{model: model, runner: runner}
}

// Transcribe downloads the video's audio and runs speech-to-text on it.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, videoID string) (string, error) {
	tmp, err := os.MkdirTemp("", "yt_transcript_")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	audioPath := filepath.Join(tmp, "audio.wav")
	err = w.runner.Run(ctx, "yt-dlp",
		"--quiet",
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "wav",
		"--output", filepath.Join(tmp, "audio.%(ext)s"),
		domain.WatchURL(videoID),
	)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}
	if _, statErr := os.Stat(audioPath); statErr != nil {
		// Post-processing can leave another extension behind.
		matches, _ := filepath.Glob(filepath.Join(tmp, "audio.*"))
		if len(matches) == 0 {
			return "", fmt.Errorf("no audio file produced for %s", videoID)
		}
		audioPath = matches[0]
	}

	err = w.runner.Run(ctx, "whisper",
		audioPath,
		"--model", w.model,
		"--output_format", "txt",
		"--output_dir", tmp,
		"--fp16", "False",
	)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	txtPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".txt"
	raw, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcription: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("empty transcription for %s", videoID)
	}
	return text, nil
}
