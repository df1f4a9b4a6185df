package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"github.com/yegor77/pipeline-portwatch/pkg/transform"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"go.uber.org/zap"
)

// CurateStandardized publishes the latest standardized snapshot under the
// external naming convention.
func (s *Stages) CurateStandardized(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	now := s.runDate()
	res := Result{Zone: string(snapshot.ZoneCurated), RunID: runID}

	if err := s.Store.EnsureDirs(); err != nil {
		return res, err
	}

	source, err := s.Store.Latest(snapshot.ZoneStandardized)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshots) {
			return res, fmt.Errorf("%w in %s", ErrNoStandardizedSnapshot, s.Store.Dir(snapshot.ZoneStandardized))
		}
		return res, fmt.Errorf("list standardized zone: %w", err)
	}

	rows, err := snapshot.ReadStandardized(source)
	if err != nil {
		return res, fmt.Errorf("read standardized snapshot %s: %w", source, err)
	}

	out := transform.Curate(rows)
	quality := transform.CuratedQuality(out)

	path := s.Store.PathFor(snapshot.ZoneCurated, now)
	codec, err := s.Writer.WriteCurated(path, out)
	if err != nil {
		return res, fmt.Errorf("write curated snapshot %s: %w", path, err)
	}

	sidecar := CuratedSidecar{
		RunID:              runID,
		ProcessedDate:      utils.ISODate(now),
		OutputFile:         path,
		Records:            len(out),
		Columns:            models.ColumnsToNameList(models.CuratedColumns),
		Codec:              codec,
		Quality:            quality,
		SourceStandardized: source,
	}
	if err := snapshot.WriteSidecar(snapshot.SidecarPath(path), sidecar); err != nil {
		return res, fmt.Errorf("write curated sidecar: %w", err)
	}

	if s.Warehouse != nil {
		if err := s.Warehouse.InsertCurated(ctx, out); err != nil {
			s.Logger.Warn("Failed to load curated rows into warehouse",
				zap.String("path", path),
				zap.Error(err))
		}
	}

	res.Path = path
	res.Rows = len(out)
	res.Written = true
	res.Codec = codec
	s.Logger.Info("Curated snapshot written",
		zap.String("path", path),
		zap.String("source", source),
		zap.Int("rows", len(out)),
		zap.String("codec", codec))
	s.printSummary("Curated quality summary:", quality)
	s.publish(ctx, res, now)
	return res, nil
}
