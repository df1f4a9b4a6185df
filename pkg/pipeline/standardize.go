package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"github.com/yegor77/pipeline-portwatch/pkg/transform"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"go.uber.org/zap"
)

// StandardizeRaw rebuilds the standardized view from every raw snapshot,
// oldest file first so that newer extractions win duplicate keys.
func (s *Stages) StandardizeRaw(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	now := s.runDate()
	res := Result{Zone: string(snapshot.ZoneStandardized), RunID: runID}

	if err := s.Store.EnsureDirs(); err != nil {
		return res, err
	}

	sources, err := s.Store.List(snapshot.ZoneRaw)
	if err != nil {
		return res, fmt.Errorf("list raw zone: %w", err)
	}
	if len(sources) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNoRawSnapshots, s.Store.Dir(snapshot.ZoneRaw))
	}

	var union []models.SourcedRaw
	for _, p := range sources {
		rows, err := snapshot.ReadRaw(p)
		if err != nil {
			return res, fmt.Errorf("read raw snapshot %s: %w", p, err)
		}
		name := filepath.Base(p)
		for _, r := range rows {
			union = append(union, models.SourcedRaw{RawObservation: r, SourceFile: name})
		}
		s.Logger.Debug("Loaded raw snapshot", zap.String("path", p), zap.Int("rows", len(rows)))
	}

	out := transform.Standardize(union)
	quality := transform.StandardizedQuality(out)

	path := s.Store.PathFor(snapshot.ZoneStandardized, now)
	codec, err := s.Writer.WriteStandardized(path, out)
	if err != nil {
		return res, fmt.Errorf("write standardized snapshot %s: %w", path, err)
	}

	sidecar := StandardizedSidecar{
		RunID:         runID,
		ProcessedDate: utils.ISODate(now),
		OutputFile:    path,
		Records:       len(out),
		Columns:       models.ColumnsToNameList(models.StandardizedColumns),
		Codec:         codec,
		Quality:       quality,
		Sources:       sources,
	}
	if err := snapshot.WriteSidecar(snapshot.SidecarPath(path), sidecar); err != nil {
		return res, fmt.Errorf("write standardized sidecar: %w", err)
	}

	res.Path = path
	res.Rows = len(out)
	res.Written = true
	res.Codec = codec
	s.Logger.Info("Standardized snapshot written",
		zap.String("path", path),
		zap.Int("rows", len(out)),
		zap.Int("sources", len(sources)),
		zap.Int("read_rows", len(union)),
		zap.Int("inconsistent_total", quality.InconsistentTotal),
		zap.String("codec", codec))
	s.printSummary("Standardized quality report:", quality)
	s.publish(ctx, res, now)
	return res, nil
}
