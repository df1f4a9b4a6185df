package transform

import (
	"sort"
	"strconv"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/arcgis"
	"github.com/yegor77/pipeline-portwatch/pkg/models"
)

// ShapeFeatures turns the features of one (year, chokepoint) query into raw
// observations and drops repeated (date, portname) keys keeping the first.
func ShapeFeatures(features []arcgis.Feature) []models.RawObservation {
	out := make([]models.RawObservation, 0, len(features))
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		attrs := models.CanonicalAttributes(f.Attributes)
		obs := models.RawObservation{
			Date:     epochMillisToTime(attrs["date"]),
			PortName: toText(attrs["portname"]),
			NTanker:  toFloat(attrs["n_tanker"]),
			NCargo:   toFloat(attrs["n_cargo"]),
			Year:     toInt(attrs["year"]),
			NTotal:   toFloat(attrs["n_total"]),
		}
		key := rawKey(obs)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, obs)
	}
	return out
}

func rawKey(o models.RawObservation) string {
	date := "-"
	if o.Date != nil {
		date = strconv.FormatInt(o.Date.UnixMilli(), 10)
	}
	port := "\x00"
	if o.PortName != nil {
		port = *o.PortName
	}
	return date + "|" + port
}

// Consolidate concatenates per-pair sets, orders them newest first (missing
// dates last) and stamps the extraction date on every row.
func Consolidate(sets [][]models.RawObservation, extractionDate string) []models.RawObservation {
	var out []models.RawObservation
	for _, set := range sets {
		out = append(out, set...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	for i := range out {
		out[i].ExtractionDate = extractionDate
	}
	return out
}

// LatestDate returns the newest observation date, or the zero time.
func LatestDate(rows []models.RawObservation) (latest time.Time) {
	for _, r := range rows {
		if r.Date != nil && r.Date.After(latest) {
			latest = *r.Date
		}
	}
	return latest
}
