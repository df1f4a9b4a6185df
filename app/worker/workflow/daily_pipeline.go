package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/pipeline"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal/portwatch"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

type step struct {
	stage   string
	fn      func(context.Context) (pipeline.Result, error)
	timeout time.Duration
}

// DailyPipelineWorkflow runs acquisition, standardization and curation in
// order. A failing stage stops the run; stages that lack their input are not
// retried.
func (wc *Context) DailyPipelineWorkflow(ctx workflow.Context, in portwatch.DailyPipelineInput) ([]pipeline.Result, error) {
	logger := workflow.GetLogger(ctx)

	acquireTimeout := wc.AcquireTimeout
	if acquireTimeout <= 0 {
		acquireTimeout = defaultAcquireTimeout
	}
	stageTimeout := wc.StageTimeout
	if stageTimeout <= 0 {
		stageTimeout = defaultStageTimeout
	}

	steps := []step{
		{stage: pipeline.StageRaw, fn: wc.ActivityContext.AcquireRaw, timeout: acquireTimeout},
		{stage: pipeline.StageStandardized, fn: wc.ActivityContext.StandardizeRaw, timeout: stageTimeout},
		{stage: pipeline.StageCurated, fn: wc.ActivityContext.CurateStandardized, timeout: stageTimeout},
	}

	start := 0
	if in.FromStage != "" {
		start = -1
		for i, s := range steps {
			if s.stage == in.FromStage {
				start = i
				break
			}
		}
		if start < 0 {
			return nil, sdktemporal.NewNonRetryableApplicationError(
				fmt.Sprintf("unknown stage %q", in.FromStage), "invalid_input", nil)
		}
	}

	results := make([]pipeline.Result, 0, len(steps)-start)
	for _, s := range steps[start:] {
		ao := workflow.ActivityOptions{
			StartToCloseTimeout: s.timeout,
			HeartbeatTimeout:    2 * time.Minute,
			RetryPolicy: &sdktemporal.RetryPolicy{
				InitialInterval:        time.Minute,
				BackoffCoefficient:     2.0,
				MaximumInterval:        10 * time.Minute,
				MaximumAttempts:        2,
				NonRetryableErrorTypes: []string{portwatch.ErrTypeMissingInput},
			},
			TaskQueue: wc.TaskQueue,
		}
		actCtx := workflow.WithActivityOptions(ctx, ao)

		var res pipeline.Result
		if err := workflow.ExecuteActivity(actCtx, s.fn).Get(actCtx, &res); err != nil {
			logger.Error("Pipeline stage failed", "stage", s.stage, "error", err.Error())
			return results, err
		}
		logger.Info("Pipeline stage completed",
			"stage", s.stage,
			"written", res.Written,
			"rows", res.Rows,
			"path", res.Path)
		results = append(results, res)
	}
	return results, nil
}
