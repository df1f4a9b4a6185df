package snapshot

import (
	"fmt"

	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"go.uber.org/zap"
)

// Codec encodes zone rows into a columnar file.
type Codec interface {
	Name() string
	WriteRaw(path string, rows []models.RawObservation) error
	WriteStandardized(path string, rows []models.StandardizedObservation) error
	WriteCurated(path string, rows []models.CuratedObservation) error
}

// FallbackWriter writes with Primary and, when that fails, retries the same
// file with Secondary. Raw snapshots never fall back.
type FallbackWriter struct {
	Primary   Codec
	Secondary Codec
	Logger    *zap.Logger
}

// WriteRaw writes with the primary codec only.
func (f *FallbackWriter) WriteRaw(path string, rows []models.RawObservation) (string, error) {
	if err := f.Primary.WriteRaw(path, rows); err != nil {
		return "", fmt.Errorf("%s: %w", f.Primary.Name(), err)
	}
	return f.Primary.Name(), nil
}

// WriteStandardized returns the name of the codec that produced the file.
func (f *FallbackWriter) WriteStandardized(path string, rows []models.StandardizedObservation) (string, error) {
	return f.write(path, func(c Codec) error { return c.WriteStandardized(path, rows) })
}

// WriteCurated returns the name of the codec that produced the file.
func (f *FallbackWriter) WriteCurated(path string, rows []models.CuratedObservation) (string, error) {
	return f.write(path, func(c Codec) error { return c.WriteCurated(path, rows) })
}

func (f *FallbackWriter) write(path string, fn func(Codec) error) (string, error) {
	primaryErr := fn(f.Primary)
	if primaryErr == nil {
		return f.Primary.Name(), nil
	}
	if f.Secondary == nil {
		return "", fmt.Errorf("%s: %w", f.Primary.Name(), primaryErr)
	}

	f.Logger.Warn("Primary columnar codec failed, falling back",
		zap.String("path", path),
		zap.String("primary", f.Primary.Name()),
		zap.String("secondary", f.Secondary.Name()),
		zap.Error(primaryErr))

	if err := fn(f.Secondary); err != nil {
		return "", fmt.Errorf("%s failed (%v), %s failed: %w", f.Primary.Name(), primaryErr, f.Secondary.Name(), err)
	}
	return f.Secondary.Name(), nil
}
