package transform

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yegor77/pipeline-portwatch/pkg/arcgis"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShapeFeaturesCoercesAttributes(t *testing.T) {
	feats := []arcgis.Feature{
		{Attributes: map[string]any{
			"date":     json.Number("1704067200000"),
			"portname": "Suez Canal",
			"n_tanker": json.Number("20"),
			"n_cargo":  "51",
			"year":     json.Number("2024"),
			"n_total":  json.Number("71"),
		}},
		{Attributes: map[string]any{
			"DATE":     json.Number("1704153600000"),
			"PortName": "Suez Canal",
			"n_tanker": "n/a",
			"n_cargo":  nil,
			"year":     json.Number("2024.5"),
			"n_total":  true,
		}},
		{Attributes: map[string]any{
			"date":     "not a date",
			"portname": "Suez Canal",
		}},
	}

	got := ShapeFeatures(feats)
	require.Len(t, got, 3)

	require.Equal(t, day(2024, 1, 1), *got[0].Date)
	require.Equal(t, "Suez Canal", *got[0].PortName)
	require.Equal(t, 20.0, *got[0].NTanker)
	require.Equal(t, 51.0, *got[0].NCargo)
	require.Equal(t, int64(2024), *got[0].Year)
	require.Equal(t, 71.0, *got[0].NTotal)

	require.Equal(t, day(2024, 1, 2), *got[1].Date)
	require.Nil(t, got[1].NTanker)
	require.Nil(t, got[1].NCargo)
	require.Nil(t, got[1].Year)
	require.Nil(t, got[1].NTotal)

	require.Nil(t, got[2].Date)
}

func TestShapeFeaturesDedupKeepsFirst(t *testing.T) {
	feat := func(total int) arcgis.Feature {
		return arcgis.Feature{Attributes: map[string]any{
			"date": json.Number("1704067200000"), "portname": "Panama Canal", "n_total": total,
		}}
	}
	got := ShapeFeatures([]arcgis.Feature{feat(1), feat(2), feat(3)})
	require.Len(t, got, 1)
	require.Equal(t, 1.0, *got[0].NTotal)

	again := ShapeFeatures([]arcgis.Feature{feat(1), feat(2)})
	require.Equal(t, got, again)
}

func TestConsolidateSortsNewestFirstAndStamps(t *testing.T) {
	a := []models.RawObservation{
		{Date: ptr(day(2024, 1, 1)), PortName: ptr("Suez Canal")},
		{PortName: ptr("Suez Canal")},
	}
	b := []models.RawObservation{
		{Date: ptr(day(2024, 3, 1)), PortName: ptr("Panama Canal")},
		{Date: ptr(day(2023, 12, 31)), PortName: ptr("Panama Canal")},
	}

	got := Consolidate([][]models.RawObservation{a, b}, "2025-03-07")
	require.Len(t, got, 4)
	require.Equal(t, day(2024, 3, 1), *got[0].Date)
	require.Equal(t, day(2024, 1, 1), *got[1].Date)
	require.Equal(t, day(2023, 12, 31), *got[2].Date)
	require.Nil(t, got[3].Date)
	for _, r := range got {
		require.Equal(t, "2025-03-07", r.ExtractionDate)
	}
	require.Equal(t, day(2024, 3, 1), LatestDate(got))
}

func TestConsolidateEmpty(t *testing.T) {
	require.Empty(t, Consolidate(nil, "2025-03-07"))
	require.True(t, LatestDate(nil).IsZero())
}
