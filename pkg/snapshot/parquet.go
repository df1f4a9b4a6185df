package snapshot

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
)

// ParquetCodec is the primary engine, built on parquet-go/parquet-go and the
// parquet struct tags of the row types.
type ParquetCodec struct{}

func (ParquetCodec) Name() string { return "parquet-go" }

func (ParquetCodec) WriteRaw(path string, rows []models.RawObservation) error {
	return writeParquet(path, rows)
}

func (ParquetCodec) WriteStandardized(path string, rows []models.StandardizedObservation) error {
	return writeParquet(path, rows)
}

func (ParquetCodec) WriteCurated(path string, rows []models.CuratedObservation) error {
	return writeParquet(path, rows)
}

func writeParquet[T any](path string, rows []T) error {
	return writeAtomic(path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		w := parquet.NewGenericWriter[T](f, parquet.Compression(&parquet.Snappy))
		if _, err := w.Write(rows); err != nil {
			_ = f.Close()
			return fmt.Errorf("write rows: %w", err)
		}
		if err := w.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("close writer: %w", err)
		}
		return f.Close()
	})
}

// ReadRaw loads a raw snapshot.
func ReadRaw(path string) ([]models.RawObservation, error) {
	return parquet.ReadFile[models.RawObservation](path)
}

// ReadStandardized loads a standardized snapshot.
func ReadStandardized(path string) ([]models.StandardizedObservation, error) {
	return parquet.ReadFile[models.StandardizedObservation](path)
}

// ReadCurated loads a curated snapshot.
func ReadCurated(path string) ([]models.CuratedObservation, error) {
	return parquet.ReadFile[models.CuratedObservation](path)
}
