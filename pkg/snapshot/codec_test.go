package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"go.uber.org/zap/zaptest"
)

func ptr[T any](v T) *T { return &v }

func TestParquetCodecRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rawPath := filepath.Join(dir, "raw.parquet")
	rawRows := []models.RawObservation{
		{Date: &d, PortName: ptr("Suez Canal"), NTanker: ptr(20.0), NCargo: ptr(51.0), Year: ptr(int64(2024)), NTotal: ptr(71.0), ExtractionDate: "2025-03-07"},
		{PortName: ptr("Suez Canal"), ExtractionDate: "2025-03-07"},
	}
	require.NoError(t, ParquetCodec{}.WriteRaw(rawPath, rawRows))
	gotRaw, err := ReadRaw(rawPath)
	require.NoError(t, err)
	require.Len(t, gotRaw, 2)
	require.True(t, gotRaw[0].Date.Equal(d))
	require.Equal(t, 71.0, *gotRaw[0].NTotal)
	require.Nil(t, gotRaw[1].Date)
	require.Nil(t, gotRaw[1].NTanker)

	stdPath := filepath.Join(dir, "std.parquet")
	stdRows := []models.StandardizedObservation{
		{Date: d, MonthBucket: "2024-01-01", PortName: "Suez Canal", NTotal: ptr(8.0), ExtractionDate: ptr("2025-03-07"), SourceFile: "raw.parquet", TotalInconsistent: true},
	}
	require.NoError(t, ParquetCodec{}.WriteStandardized(stdPath, stdRows))
	gotStd, err := ReadStandardized(stdPath)
	require.NoError(t, err)
	require.Len(t, gotStd, 1)
	require.Equal(t, "Suez Canal", gotStd[0].PortName)
	require.True(t, gotStd[0].TotalInconsistent)
	require.Nil(t, gotStd[0].NTanker)
	require.Equal(t, "2025-03-07", *gotStd[0].ExtractionDate)

	curPath := filepath.Join(dir, "cur.parquet")
	require.NoError(t, ParquetCodec{}.WriteCurated(curPath, []models.CuratedObservation{{RefDate: d, PortName: "Suez Canal"}}))
	gotCur, err := ReadCurated(curPath)
	require.NoError(t, err)
	require.Len(t, gotCur, 1)

	_, err = os.Stat(curPath + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestXitongsysCodecWritesParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cur.parquet")
	rows := []models.CuratedObservation{
		{RefDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), MonthBucket: "2024-01-01", PortName: "Suez Canal", TotalVesselCount: ptr(3.0)},
	}
	require.NoError(t, XitongsysCodec{}.WriteCurated(path, rows))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), 8)
	require.Equal(t, "PAR1", string(b[:4]))
	require.Equal(t, "PAR1", string(b[len(b)-4:]))
}

func TestXitongsysCodecRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	stdPath := filepath.Join(dir, "std.parquet")
	stdRows := []models.StandardizedObservation{
		{Date: d, MonthBucket: "2024-01-01", PortName: "Suez Canal", Year: ptr(int64(2024)), NTanker: ptr(5.0), NTotal: ptr(10.0), ExtractionDate: ptr("2025-03-07"), SourceFile: "raw.parquet", TotalInconsistent: true},
		{Date: d.AddDate(0, 0, 1), MonthBucket: "2024-01-01", PortName: "Panama Canal", SourceFile: "raw.parquet"},
	}
	require.NoError(t, XitongsysCodec{}.WriteStandardized(stdPath, stdRows))
	gotStd, err := ReadStandardized(stdPath)
	require.NoError(t, err)
	require.Len(t, gotStd, 2)
	require.Equal(t, "Suez Canal", gotStd[0].PortName)
	require.True(t, gotStd[0].Date.Equal(d))
	require.Equal(t, int64(2024), *gotStd[0].Year)
	require.Equal(t, 5.0, *gotStd[0].NTanker)
	require.Nil(t, gotStd[0].NCargo)
	require.Equal(t, 10.0, *gotStd[0].NTotal)
	require.Equal(t, "2025-03-07", *gotStd[0].ExtractionDate)
	require.True(t, gotStd[0].TotalInconsistent)
	require.Nil(t, gotStd[1].Year)
	require.Nil(t, gotStd[1].ExtractionDate)
	require.False(t, gotStd[1].TotalInconsistent)

	curPath := filepath.Join(dir, "cur.parquet")
	curRows := []models.CuratedObservation{
		{RefDate: d, MonthBucket: "2024-01-01", YearNum: ptr(int64(2024)), PortName: "Suez Canal", TotalVesselCount: ptr(3.0), SourceFile: "std.parquet", TotalInconsistent: true},
	}
	require.NoError(t, XitongsysCodec{}.WriteCurated(curPath, curRows))
	gotCur, err := ReadCurated(curPath)
	require.NoError(t, err)
	require.Len(t, gotCur, 1)
	require.True(t, gotCur[0].RefDate.Equal(d))
	require.Equal(t, "Suez Canal", gotCur[0].PortName)
	require.Equal(t, int64(2024), *gotCur[0].YearNum)
	require.Nil(t, gotCur[0].CargoCount)
	require.Equal(t, 3.0, *gotCur[0].TotalVesselCount)
	require.Equal(t, "std.parquet", gotCur[0].SourceFile)
	require.True(t, gotCur[0].TotalInconsistent)
}

type failingCodec struct {
	name  string
	calls int
}

func (f *failingCodec) Name() string { return f.name }
func (f *failingCodec) WriteRaw(string, []models.RawObservation) error {
	f.calls++
	return errors.New("encode failed")
}
func (f *failingCodec) WriteStandardized(string, []models.StandardizedObservation) error {
	f.calls++
	return errors.New("encode failed")
}
func (f *failingCodec) WriteCurated(string, []models.CuratedObservation) error {
	f.calls++
	return errors.New("encode failed")
}

type recordingCodec struct {
	failingCodec
	paths []string
}

func (r *recordingCodec) WriteStandardized(path string, _ []models.StandardizedObservation) error {
	r.paths = append(r.paths, path)
	return nil
}
func (r *recordingCodec) WriteCurated(path string, _ []models.CuratedObservation) error {
	r.paths = append(r.paths, path)
	return nil
}

func TestFallbackWriterUsesSecondary(t *testing.T) {
	primary := &failingCodec{name: "primary"}
	secondary := &recordingCodec{failingCodec: failingCodec{name: "secondary"}}
	w := &FallbackWriter{Primary: primary, Secondary: secondary, Logger: zaptest.NewLogger(t)}

	used, err := w.WriteStandardized("/x/std.parquet", nil)
	require.NoError(t, err)
	require.Equal(t, "secondary", used)

	used, err = w.WriteCurated("/x/cur.parquet", nil)
	require.NoError(t, err)
	require.Equal(t, "secondary", used)
	require.Equal(t, []string{"/x/std.parquet", "/x/cur.parquet"}, secondary.paths)
	require.Equal(t, 2, primary.calls)
}

func TestFallbackWriterRawHasNoFallback(t *testing.T) {
	primary := &failingCodec{name: "primary"}
	secondary := &failingCodec{name: "secondary"}
	w := &FallbackWriter{Primary: primary, Secondary: secondary, Logger: zaptest.NewLogger(t)}

	_, err := w.WriteRaw("/x/raw.parquet", nil)
	require.Error(t, err)
	require.Zero(t, secondary.calls)
}

func TestFallbackWriterBothFail(t *testing.T) {
	w := &FallbackWriter{
		Primary:   &failingCodec{name: "primary"},
		Secondary: &failingCodec{name: "secondary"},
		Logger:    zaptest.NewLogger(t),
	}
	_, err := w.WriteCurated("/x/cur.parquet", nil)
	require.Error(t, err)
}
