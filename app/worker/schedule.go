package worker

import (
	"context"
	"errors"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/config"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal/portwatch"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// DailyScheduleOptions describes the schedule that fires the pipeline once a day.
// Overlapping fires are skipped. Fires missed while the server was down are
// not backfilled beyond a one minute window.
func DailyScheduleOptions(id, taskQueue string, cfg config.Config) client.ScheduleOptions {
	return client.ScheduleOptions{
		ID:            id,
		Spec:          temporal.DailySpec(cfg.ScheduleHour, cfg.ScheduleMinute, cfg.Location.String()),
		Overlap:       enums.SCHEDULE_OVERLAP_POLICY_SKIP,
		CatchupWindow: time.Minute,
		Action: &client.ScheduleWorkflowAction{
			ID:                       temporal.WorkflowIDDaily,
			Workflow:                 portwatch.DailyPipelineWorkflowName,
			Args:                     []interface{}{portwatch.DailyPipelineInput{}},
			TaskQueue:                taskQueue,
			WorkflowExecutionTimeout: 3 * time.Hour,
			WorkflowTaskTimeout:      time.Minute,
		},
	}
}

// EnsureDailySchedule creates the daily schedule if it does not already exist.
func EnsureDailySchedule(ctx context.Context, sc client.ScheduleClient, opts client.ScheduleOptions, logger *zap.Logger) error {
	h := sc.GetHandle(ctx, opts.ID)
	_, err := h.Describe(ctx)
	if err == nil {
		logger.Debug("Daily schedule already exists", zap.String("schedule_id", opts.ID))
		return nil
	}

	var notFound *serviceerror.NotFound
	if !errors.As(err, &notFound) {
		return err
	}

	logger.Info("Creating daily schedule", zap.String("schedule_id", opts.ID))
	_, err = sc.Create(ctx, opts)
	return err
}
