package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	xparquet "github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
)

// XitongsysCodec is the secondary engine. It writes through the JSON writer of
// xitongsys/parquet-go with a schema generated from the zone's column table,
// so it shares no code path with the primary engine.
type XitongsysCodec struct {
	Parallelism int64
}

func (XitongsysCodec) Name() string { return "xitongsys-parquet-go" }

func (c XitongsysCodec) WriteRaw(path string, rows []models.RawObservation) error {
	return c.write(path, models.RawColumns, len(rows), func(i int) map[string]any {
		r := rows[i]
		return map[string]any{
			"date":            millisOrNilPtr(r.Date),
			"portname":        r.PortName,
			"n_tanker":        r.NTanker,
			"n_cargo":         r.NCargo,
			"year":            r.Year,
			"n_total":         r.NTotal,
			"extraction_date": r.ExtractionDate,
		}
	})
}

func (c XitongsysCodec) WriteStandardized(path string, rows []models.StandardizedObservation) error {
	return c.write(path, models.StandardizedColumns, len(rows), func(i int) map[string]any {
		r := rows[i]
		return map[string]any{
			"date":               r.Date.UnixMilli(),
			"month_bucket":       r.MonthBucket,
			"portname":           r.PortName,
			"year":               r.Year,
			"n_tanker":           r.NTanker,
			"n_cargo":            r.NCargo,
			"n_total":            r.NTotal,
			"extraction_date":    r.ExtractionDate,
			"source_file":        r.SourceFile,
			"total_inconsistent": r.TotalInconsistent,
		}
	})
}

func (c XitongsysCodec) WriteCurated(path string, rows []models.CuratedObservation) error {
	return c.write(path, models.CuratedColumns, len(rows), func(i int) map[string]any {
		r := rows[i]
		return map[string]any{
			"ref_date":                 r.RefDate.UnixMilli(),
			"month_bucket":             r.MonthBucket,
			"year_num":                 r.YearNum,
			"port_name":                r.PortName,
			"tanker_count":             r.TankerCount,
			"cargo_count":              r.CargoCount,
			"total_vessel_count":       r.TotalVesselCount,
			"extraction_date":          r.ExtractionDate,
			"source_file_standardized": r.SourceFile,
			"total_inconsistent":       r.TotalInconsistent,
		}
	})
}

func (c XitongsysCodec) write(path string, columns []models.ColumnDef, n int, record func(int) map[string]any) error {
	schema, err := models.ParquetJSONSchema(columns)
	if err != nil {
		return err
	}
	np := c.Parallelism
	if np <= 0 {
		np = 1
	}

	return writeAtomic(path, func(tmp string) error {
		fw, err := local.NewLocalFileWriter(tmp)
		if err != nil {
			return err
		}
		pw, err := writer.NewJSONWriter(schema, fw, np)
		if err != nil {
			_ = fw.Close()
			return fmt.Errorf("create json writer: %w", err)
		}
		pw.CompressionType = xparquet.CompressionCodec_SNAPPY

		for i := 0; i < n; i++ {
			rec, err := json.Marshal(record(i))
			if err != nil {
				_ = fw.Close()
				return err
			}
			if err := pw.Write(string(rec)); err != nil {
				_ = fw.Close()
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
		if err := pw.WriteStop(); err != nil {
			_ = fw.Close()
			return fmt.Errorf("finish file: %w", err)
		}
		return fw.Close()
	})
}

func millisOrNilPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return millisOrNil(*t)
}

func millisOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}
