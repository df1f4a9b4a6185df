package workflow

import (
	"time"

	"github.com/yegor77/pipeline-portwatch/app/worker/activity"
)

// Context holds dependencies for the pipeline workflow.
type Context struct {
	TaskQueue       string
	ActivityContext *activity.Context

	// Timeouts; zero values fall back to the defaults below.
	AcquireTimeout time.Duration
	StageTimeout   time.Duration
}

const (
	defaultAcquireTimeout = time.Hour
	defaultStageTimeout   = 15 * time.Minute
)
