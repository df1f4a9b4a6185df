package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"go.uber.org/zap"
)

const loadedAtColumn = "loaded_at"

// CuratedTableDDL returns the CREATE TABLE statement of the curated table in db.
// Reloading a day's rows replaces them once parts merge.
func CuratedTableDDL(db string) string {
	cols := models.ColumnsToSchemaSQL(models.CuratedColumns)
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			%s,
			%s DateTime64(3)
		) ENGINE = %s(%s)
		ORDER BY (ref_date, port_name)`,
		db, models.CuratedTableName, cols, loadedAtColumn, ReplacingMergeTree, loadedAtColumn)
}

// CuratedInsertSQL returns the batch INSERT statement of the curated table.
func CuratedInsertSQL(db string) string {
	names := append(models.ColumnsToNameList(models.CuratedColumns), loadedAtColumn)
	return fmt.Sprintf("INSERT INTO %s.%s (%s)", db, models.CuratedTableName, strings.Join(names, ", "))
}

// InitCurated creates the curated table when missing.
func (c *Client) InitCurated(ctx context.Context) error {
	if err := c.Exec(ctx, CuratedTableDDL(c.Database)); err != nil {
		return fmt.Errorf("create %s: %w", models.CuratedTableName, err)
	}
	return nil
}

// InsertCurated loads rows into the curated table as one batch.
func (c *Client) InsertCurated(ctx context.Context, rows []models.CuratedObservation) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.PrepareBatch(ctx, CuratedInsertSQL(c.Database))
	if err != nil {
		return fmt.Errorf("prepare curated batch: %w", err)
	}
	loadedAt := time.Now().UTC()
	for _, r := range rows {
		if err := batch.Append(
			r.RefDate,
			r.MonthBucket,
			r.YearNum,
			r.PortName,
			r.TankerCount,
			r.CargoCount,
			r.TotalVesselCount,
			r.ExtractionDate,
			r.SourceFile,
			r.TotalInconsistent,
			loadedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append curated row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send curated batch: %w", err)
	}
	c.Logger.Info("Loaded curated rows",
		zap.String("table", c.Database+"."+models.CuratedTableName),
		zap.Int("rows", len(rows)))
	return nil
}
