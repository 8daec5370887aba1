package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubedigest/internal/config"
)

func TestIntervalRunnerRepeatsUntilCanceled(t *testing.T) {
	t.Parallel()

	e := newEnv(threeVideos()[:1], config.DeliveryConfig{})
	runner := NewIntervalRunner(e.pipeline, 10*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, runner.Run(ctx))
	// First pass processed the video; later passes skipped it as done.
	assert.True(t, e.store.Contains("vid00000001"))
	assert.Len(t, e.transcripts.calls, 1)
}

func TestIntervalRunnerFirstFailureIsFatal(t *testing.T) {
	t.Parallel()

	e := newEnv(nil, config.DeliveryConfig{})
	e.source.err = fmt.Errorf("no discovery provider configured")
	runner := NewIntervalRunner(e.pipeline, time.Hour, nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
}
