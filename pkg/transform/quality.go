package transform

import (
	"sort"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/models"
)

// NegativeCounts holds per-column counts of negative values.
type NegativeCounts struct {
	NTanker int `json:"n_tanker"`
	NCargo  int `json:"n_cargo"`
	NTotal  int `json:"n_total"`
}

// StandardizedQualityReport summarizes a standardized snapshot.
type StandardizedQualityReport struct {
	TotalRows         int            `json:"total_rows"`
	NullDate          int            `json:"null_date"`
	NullPortName      int            `json:"null_portname"`
	Negatives         NegativeCounts `json:"negatives"`
	InconsistentTotal int            `json:"inconsistent_total"`
	PeriodMin         *string        `json:"period_min"`
	PeriodMax         *string        `json:"period_max"`
	DistinctPorts     []string       `json:"distinct_ports"`
}

// CuratedQualityReport summarizes a curated snapshot.
type CuratedQualityReport struct {
	Rows      int      `json:"rows"`
	Ports     []string `json:"ports"`
	PeriodMin *string  `json:"period_min"`
	PeriodMax *string  `json:"period_max"`
}

// StandardizedQuality computes the quality report of standardized rows.
func StandardizedQuality(rows []models.StandardizedObservation) StandardizedQualityReport {
	q := StandardizedQualityReport{TotalRows: len(rows), DistinctPorts: []string{}}
	var dates []time.Time
	ports := make(map[string]struct{})
	for _, r := range rows {
		if r.Date.IsZero() {
			q.NullDate++
		} else {
			dates = append(dates, r.Date)
		}
		if r.PortName == "" {
			q.NullPortName++
		} else {
			ports[r.PortName] = struct{}{}
		}
		if isNegative(r.NTanker) {
			q.Negatives.NTanker++
		}
		if isNegative(r.NCargo) {
			q.Negatives.NCargo++
		}
		if isNegative(r.NTotal) {
			q.Negatives.NTotal++
		}
		if r.TotalInconsistent {
			q.InconsistentTotal++
		}
	}
	q.PeriodMin, q.PeriodMax = period(dates)
	q.DistinctPorts = sortedKeys(ports)
	return q
}

// CuratedQuality computes the quality summary of curated rows.
func CuratedQuality(rows []models.CuratedObservation) CuratedQualityReport {
	q := CuratedQualityReport{Rows: len(rows)}
	var dates []time.Time
	ports := make(map[string]struct{})
	for _, r := range rows {
		if !r.RefDate.IsZero() {
			dates = append(dates, r.RefDate)
		}
		if r.PortName != "" {
			ports[r.PortName] = struct{}{}
		}
	}
	q.PeriodMin, q.PeriodMax = period(dates)
	q.Ports = sortedKeys(ports)
	return q
}

func period(dates []time.Time) (*string, *string) {
	if len(dates) == 0 {
		return nil, nil
	}
	lo, hi := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	first, last := lo.Format("2006-01-02"), hi.Format("2006-01-02")
	return &first, &last
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isNegative(f *float64) bool {
	return f != nil && *f < 0
}
