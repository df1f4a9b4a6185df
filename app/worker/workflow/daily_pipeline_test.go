package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yegor77/pipeline-portwatch/app/worker/activity"
	"github.com/yegor77/pipeline-portwatch/pkg/pipeline"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal/portwatch"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap/zaptest"
)

// wfFakeStages records the order stages ran in. errs holds per-stage errors
// consumed one call at a time.
type wfFakeStages struct {
	mu    sync.Mutex
	calls []string
	errs  map[string][]error
}

func (f *wfFakeStages) run(stage string) (pipeline.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, stage)
	if queue := f.errs[stage]; len(queue) > 0 {
		err := queue[0]
		f.errs[stage] = queue[1:]
		if err != nil {
			return pipeline.Result{}, err
		}
	}
	return pipeline.Result{Zone: stage, Rows: 10, Written: true, Path: "/data/" + stage}, nil
}

func (f *wfFakeStages) AcquireRaw(context.Context) (pipeline.Result, error) {
	return f.run(pipeline.StageRaw)
}
func (f *wfFakeStages) StandardizeRaw(context.Context) (pipeline.Result, error) {
	return f.run(pipeline.StageStandardized)
}
func (f *wfFakeStages) CurateStandardized(context.Context) (pipeline.Result, error) {
	return f.run(pipeline.StageCurated)
}

func newEnv(t *testing.T, stages *wfFakeStages) (*testsuite.TestWorkflowEnvironment, Context) {
	suite := testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	actCtx := &activity.Context{Logger: zaptest.NewLogger(t), Stages: stages}
	wfCtx := Context{ActivityContext: actCtx}

	env.RegisterWorkflow(wfCtx.DailyPipelineWorkflow)
	env.RegisterActivity(actCtx.AcquireRaw)
	env.RegisterActivity(actCtx.StandardizeRaw)
	env.RegisterActivity(actCtx.CurateStandardized)
	return env, wfCtx
}

func TestDailyPipelineRunsStagesInOrder(t *testing.T) {
	stages := &wfFakeStages{}
	env, wfCtx := newEnv(t, stages)

	env.ExecuteWorkflow(wfCtx.DailyPipelineWorkflow, portwatch.DailyPipelineInput{})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var results []pipeline.Result
	require.NoError(t, env.GetWorkflowResult(&results))
	require.Len(t, results, 3)
	require.Equal(t, []string{"raw", "standardized", "curated"}, stages.calls)
	require.Equal(t, "curated", results[2].Zone)
}

func TestDailyPipelineStopsOnMissingInput(t *testing.T) {
	stages := &wfFakeStages{errs: map[string][]error{
		pipeline.StageStandardized: {pipeline.ErrNoRawSnapshots},
	}}
	env, wfCtx := newEnv(t, stages)

	env.ExecuteWorkflow(wfCtx.DailyPipelineWorkflow, portwatch.DailyPipelineInput{})
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, portwatch.ErrTypeMissingInput, appErr.Type())
	require.Equal(t, []string{"raw", "standardized"}, stages.calls)
}

func TestDailyPipelineRetriesTransientStageFailure(t *testing.T) {
	stages := &wfFakeStages{errs: map[string][]error{
		pipeline.StageRaw: {errors.New("disk full")},
	}}
	env, wfCtx := newEnv(t, stages)

	env.ExecuteWorkflow(wfCtx.DailyPipelineWorkflow, portwatch.DailyPipelineInput{})
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, []string{"raw", "raw", "standardized", "curated"}, stages.calls)
}

func TestDailyPipelineResumesFromStage(t *testing.T) {
	stages := &wfFakeStages{}
	env, wfCtx := newEnv(t, stages)

	env.ExecuteWorkflow(wfCtx.DailyPipelineWorkflow, portwatch.DailyPipelineInput{FromStage: "curated"})
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, []string{"curated"}, stages.calls)
}

func TestDailyPipelineRejectsUnknownStage(t *testing.T) {
	stages := &wfFakeStages{}
	env, wfCtx := newEnv(t, stages)

	env.ExecuteWorkflow(wfCtx.DailyPipelineWorkflow, portwatch.DailyPipelineInput{FromStage: "gold"})
	require.Error(t, env.GetWorkflowError())
	require.Empty(t, stages.calls)
}
