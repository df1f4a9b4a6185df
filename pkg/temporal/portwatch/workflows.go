package portwatch

// Workflow and activity names registered by the worker. Other processes use
// them to start or schedule runs without importing the worker.
const (
	DailyPipelineWorkflowName = "DailyPipelineWorkflow"

	AcquireRawActivityName         = "AcquireRaw"
	StandardizeRawActivityName     = "StandardizeRaw"
	CurateStandardizedActivityName = "CurateStandardized"
)

// Error types carried by non-retryable application errors.
const (
	ErrTypeMissingInput = "missing_input"
	ErrTypeStageFailed  = "stage_failed"
)

// DailyPipelineInput selects where a run starts. An empty FromStage runs all
// three stages; "standardized" or "curated" resumes a partially failed day.
type DailyPipelineInput struct {
	FromStage string `json:"from_stage,omitempty"`
}
