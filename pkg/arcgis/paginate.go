package arcgis

import (
	"context"
	"errors"
	"fmt"

	"github.com/yegor77/pipeline-portwatch/pkg/retry"
	"go.uber.org/zap"
)

// Paginator walks a filtered query page by page.
type Paginator struct {
	Source   Querier
	PageSize int
	Retry    retry.Config
	Logger   *zap.Logger
}

// FetchAll returns every feature matching base.Where. A page is requested
// until it succeeds or Retry is exhausted; exhaustion abandons the remaining
// pages and returns what was accumulated with Abandoned set. Only context
// cancellation is reported as an error.
func (p *Paginator) FetchAll(ctx context.Context, base QueryParams) ([]Feature, FetchStats, error) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		all   []Feature
		stats FetchStats
	)
	offset := 0
	for {
		params := base
		params.Offset = offset
		params.PageSize = pageSize

		var page QueryResponse
		err := retry.WithBackoff(ctx, p.Retry, p.Logger, fmt.Sprintf("query %q offset %d", base.Where, offset), func() error {
			resp, qErr := p.Source.Query(ctx, params)
			if qErr != nil {
				return qErr
			}
			page = resp
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return all, stats, ctxErr
			}
			p.Logger.Warn("Abandoning query after exhausting attempts",
				zap.String("where", base.Where),
				zap.Int("offset", offset),
				zap.Int("accumulated", len(all)),
				zap.Error(err))
			stats.Abandoned = true
			break
		}

		if len(page.Features) == 0 {
			break
		}
		all = append(all, page.Features...)
		stats.Pages++
		offset += len(page.Features)

		if !page.ExceededTransferLimit {
			break
		}
	}

	stats.Features = len(all)
	stats.NextOffset = offset
	return all, stats, nil
}
