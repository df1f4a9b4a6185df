package transform

import (
	"sort"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/models"
)

// Curate renames standardized rows to their external names, casts the
// reference timestamp to a calendar date and orders by (date, location).
func Curate(rows []models.StandardizedObservation) []models.CuratedObservation {
	out := make([]models.CuratedObservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CuratedObservation{
			RefDate:           calendarDate(r.Date),
			MonthBucket:       r.MonthBucket,
			YearNum:           r.Year,
			PortName:          r.PortName,
			TankerCount:       r.NTanker,
			CargoCount:        r.NCargo,
			TotalVesselCount:  r.NTotal,
			ExtractionDate:    r.ExtractionDate,
			SourceFile:        r.SourceFile,
			TotalInconsistent: r.TotalInconsistent,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RefDate.Equal(out[j].RefDate) {
			return out[i].RefDate.Before(out[j].RefDate)
		}
		return out[i].PortName < out[j].PortName
	})
	return out
}

func calendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
