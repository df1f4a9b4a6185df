package activity

import (
	"context"

	"github.com/yegor77/pipeline-portwatch/pkg/pipeline"
)

// AcquireRaw fetches every configured (year, chokepoint) pair into a raw snapshot.
func (c *Context) AcquireRaw(ctx context.Context) (pipeline.Result, error) {
	return c.runStage(ctx, pipeline.StageRaw, c.Stages.AcquireRaw)
}

// StandardizeRaw rebuilds the standardized snapshot from all raw snapshots.
func (c *Context) StandardizeRaw(ctx context.Context) (pipeline.Result, error) {
	return c.runStage(ctx, pipeline.StageStandardized, c.Stages.StandardizeRaw)
}

// CurateStandardized renames and orders the latest standardized snapshot.
func (c *Context) CurateStandardized(ctx context.Context) (pipeline.Result, error) {
	return c.runStage(ctx, pipeline.StageCurated, c.Stages.CurateStandardized)
}
