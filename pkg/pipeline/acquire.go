package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/yegor77/pipeline-portwatch/pkg/arcgis"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"github.com/yegor77/pipeline-portwatch/pkg/retry"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"github.com/yegor77/pipeline-portwatch/pkg/transform"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"go.uber.org/zap"
)

// AcquireRaw queries every (year, chokepoint) pair, consolidates the rows and
// writes one raw snapshot with its sidecar. A pair whose pages keep failing
// contributes what it fetched so far. When nothing at all is collected the
// stage logs a warning and writes nothing.
func (s *Stages) AcquireRaw(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	now := s.runDate()
	res := Result{Zone: string(snapshot.ZoneRaw), RunID: runID}

	if err := s.Store.EnsureDirs(); err != nil {
		return res, err
	}

	pager := &arcgis.Paginator{
		Source:   s.Source,
		PageSize: s.Config.PageSize,
		Retry:    retry.LinearConfig(s.Config.MaxAttempts, s.Config.BackoffStep),
		Logger:   s.Logger,
	}

	type pair struct {
		year int
		port string
	}
	var pairs []pair
	for _, year := range s.Config.Years {
		for _, port := range s.Config.Chokepoints {
			pairs = append(pairs, pair{year: year, port: port})
		}
	}

	// Slots keep the consolidated order independent of completion order.
	sets := make([][]models.RawObservation, len(pairs))
	var (
		total     atomic.Int64
		abandoned atomic.Int32
	)

	concurrency := s.Config.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	pool := pond.NewPool(concurrency)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i, pr := range pairs {
		group.SubmitErr(func() error {
			features, stats, err := pager.FetchAll(groupCtx, arcgis.QueryParams{
				Where:     arcgis.WhereYearAndPort(pr.year, pr.port),
				OutFields: arcgis.DefaultOutFields,
				OrderBy:   arcgis.DefaultOrderBy,
			})
			if err != nil {
				return fmt.Errorf("fetch %s %d: %w", pr.port, pr.year, err)
			}
			if stats.Abandoned {
				abandoned.Add(1)
			}
			if len(features) == 0 {
				s.Logger.Warn("No data for chokepoint",
					zap.String("chokepoint", pr.port),
					zap.Int("year", pr.year))
				return nil
			}

			rows := transform.ShapeFeatures(features)
			sets[i] = rows
			s.Logger.Info("Collected chokepoint rows",
				zap.String("chokepoint", pr.port),
				zap.Int("year", pr.year),
				zap.Int("pages", stats.Pages),
				zap.Int("rows", len(rows)),
				zap.Int64("running_total", total.Add(int64(len(rows)))))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return res, err
	}

	extractionDate := utils.ISODate(now)
	rows := transform.Consolidate(sets, extractionDate)
	if len(rows) == 0 {
		s.Logger.Warn("No data collected, raw snapshot not written",
			zap.Int32("pairs_abandoned", abandoned.Load()))
		return res, nil
	}

	path := s.Store.PathFor(snapshot.ZoneRaw, now)
	codec, err := s.Writer.WriteRaw(path, rows)
	if err != nil {
		return res, fmt.Errorf("write raw snapshot %s: %w", path, err)
	}

	var latest *string
	if d := transform.LatestDate(rows); !d.IsZero() {
		v := utils.ISODate(d)
		latest = &v
	}
	sidecar := RawSidecar{
		RunID:          runID,
		ExtractionDate: extractionDate,
		TotalRecords:   len(rows),
		Chokepoints:    s.Config.Chokepoints,
		Years:          s.Config.Years,
		OutputFile:     path,
		Columns:        models.ColumnsToNameList(models.RawColumns),
		LatestDate:     latest,
		PairsAbandoned: int(abandoned.Load()),
	}
	if err := snapshot.WriteSidecar(snapshot.SidecarPath(path), sidecar); err != nil {
		return res, fmt.Errorf("write raw sidecar: %w", err)
	}
	s.printSummary("Raw extraction summary:", sidecar)

	if err := s.RunLog.Append(now, len(rows), path); err != nil {
		s.Logger.Warn("Failed to append run log", zap.String("path", s.RunLog.Path), zap.Error(err))
	}

	res.Path = path
	res.Rows = len(rows)
	res.Written = true
	res.Codec = codec
	s.Logger.Info("Raw snapshot written",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int32("pairs_abandoned", abandoned.Load()))
	s.publish(ctx, res, now)
	return res, nil
}
