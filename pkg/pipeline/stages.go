package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/arcgis"
	"github.com/yegor77/pipeline-portwatch/pkg/config"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"go.uber.org/zap"
)

var (
	// ErrNoRawSnapshots means standardization found nothing to read.
	ErrNoRawSnapshots = errors.New("no raw snapshots to standardize")
	// ErrNoStandardizedSnapshot means curation found nothing to read.
	ErrNoStandardizedSnapshot = errors.New("no standardized snapshot to curate")
)

// Stage names accepted by Run.
const (
	StageRaw          = "raw"
	StageStandardized = "standardized"
	StageCurated      = "curated"
	StageAll          = "all"
)

// Publisher announces written snapshots. Implementations are best effort.
type Publisher interface {
	PublishSnapshot(ctx context.Context, event models.SnapshotEvent)
}

// Warehouse receives the curated rows after the curated snapshot is written.
type Warehouse interface {
	InsertCurated(ctx context.Context, rows []models.CuratedObservation) error
}

// Result describes what a stage produced.
type Result struct {
	Zone    string `json:"zone"`
	Path    string `json:"path,omitempty"`
	Rows    int    `json:"rows"`
	Written bool   `json:"written"`
	Codec   string `json:"codec,omitempty"`
	RunID   string `json:"run_id"`
}

// Stages holds the dependencies of the three pipeline stages. Stages run
// sequentially and assume they are the only writer of the storage root.
type Stages struct {
	Logger *zap.Logger
	Config config.Config
	Source arcgis.Querier
	Store  *snapshot.Store
	Writer *snapshot.FallbackWriter
	RunLog snapshot.RunLog
	Clock  func() time.Time

	// Optional sinks; nil disables them.
	Publisher Publisher
	Warehouse Warehouse

	// Stdout receives the human-readable quality summaries.
	Stdout io.Writer
}

// New wires the stages with the production source and codecs.
func New(cfg config.Config, logger *zap.Logger) *Stages {
	source := arcgis.NewClient(arcgis.Opts{
		URL:         cfg.SourceURL,
		Timeout:     cfg.RequestTimeout,
		RPS:         cfg.SourceRPS,
		InsecureTLS: cfg.InsecureTLS,
	})
	return &Stages{
		Logger: logger,
		Config: cfg,
		Source: source,
		Store:  snapshot.NewStore(cfg.DataRoot),
		Writer: &snapshot.FallbackWriter{
			Primary:   snapshot.ParquetCodec{},
			Secondary: snapshot.XitongsysCodec{},
			Logger:    logger,
		},
		RunLog: snapshot.RunLog{Path: filepath.Join(cfg.LogDir, "exec_raw.log")},
		Clock:  time.Now,
		Stdout: os.Stdout,
	}
}

// Run executes one named stage, or all of them in order.
func (s *Stages) Run(ctx context.Context, stage string) ([]Result, error) {
	switch stage {
	case StageRaw:
		return single(s.AcquireRaw(ctx))
	case StageStandardized:
		return single(s.StandardizeRaw(ctx))
	case StageCurated:
		return single(s.CurateStandardized(ctx))
	case StageAll, "":
		return s.RunAll(ctx)
	default:
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
}

// RunAll runs acquisition, standardization and curation in order and stops
// at the first failure.
func (s *Stages) RunAll(ctx context.Context) ([]Result, error) {
	steps := []func(context.Context) (Result, error){s.AcquireRaw, s.StandardizeRaw, s.CurateStandardized}
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		res, err := step(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func single(res Result, err error) ([]Result, error) {
	if err != nil {
		return nil, err
	}
	return []Result{res}, nil
}

// runDate is the run's wall-clock time in the configured zone.
func (s *Stages) runDate() time.Time {
	now := s.Clock()
	if s.Config.Location != nil {
		now = now.In(s.Config.Location)
	}
	return now
}

func (s *Stages) publish(ctx context.Context, res Result, at time.Time) {
	if s.Publisher == nil || !res.Written {
		return
	}
	s.Publisher.PublishSnapshot(ctx, models.SnapshotEvent{
		Zone:  res.Zone,
		Path:  res.Path,
		Rows:  res.Rows,
		Codec: res.Codec,
		RunID: res.RunID,
		At:    at,
	})
}

func (s *Stages) printSummary(title string, v any) {
	if s.Stdout == nil {
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(s.Stdout, "%s\n%s\n", title, b)
}
