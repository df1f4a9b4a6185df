package arcgis

import "context"

// Querier performs a single feature-query request without retrying.
type Querier interface {
	Query(ctx context.Context, params QueryParams) (QueryResponse, error)
}
