package arcgis

import "fmt"

// Feature is one record of a feature-query response. Only the attribute
// dictionary is used; geometry is never requested.
type Feature struct {
	Attributes map[string]any `json:"attributes"`
}

// QueryResponse is the subset of the feature-query JSON the pipeline reads.
type QueryResponse struct {
	Features              []Feature     `json:"features"`
	ExceededTransferLimit bool          `json:"exceededTransferLimit"`
	Error                 *ServiceError `json:"error,omitempty"`
}

// ServiceError is the error object ArcGIS returns with HTTP 200.
type ServiceError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("arcgis error %d: %s", e.Code, e.Message)
}

// FetchStats summarizes one paginated fetch.
type FetchStats struct {
	Pages      int
	Features   int
	NextOffset int
	Abandoned  bool
}
