package activity

import (
	"context"
	"errors"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/pipeline"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal/portwatch"
	sdkactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"
)

// StageRunner is the subset of *pipeline.Stages the activities drive.
type StageRunner interface {
	AcquireRaw(ctx context.Context) (pipeline.Result, error)
	StandardizeRaw(ctx context.Context) (pipeline.Result, error)
	CurateStandardized(ctx context.Context) (pipeline.Result, error)
}

// Context holds the dependencies of the pipeline activities.
type Context struct {
	Logger *zap.Logger
	Stages StageRunner

	// HeartbeatInterval defaults to 30s.
	HeartbeatInterval time.Duration
}

// runStage executes fn while heartbeating, then maps pipeline errors onto
// Temporal application errors.
func (c *Context) runStage(ctx context.Context, stage string, fn func(context.Context) (pipeline.Result, error)) (pipeline.Result, error) {
	interval := c.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				sdkactivity.RecordHeartbeat(ctx, stage)
			}
		}
	}()

	res, err := fn(ctx)
	if err != nil {
		c.Logger.Error("Stage failed", zap.String("stage", stage), zap.Error(err))
		return res, classify(err)
	}
	return res, nil
}

func classify(err error) error {
	if errors.Is(err, pipeline.ErrNoRawSnapshots) || errors.Is(err, pipeline.ErrNoStandardizedSnapshot) {
		return temporal.NewNonRetryableApplicationError(err.Error(), portwatch.ErrTypeMissingInput, err)
	}
	return temporal.NewApplicationErrorWithCause(err.Error(), portwatch.ErrTypeStageFailed, err)
}
