package transform

import (
	"sort"
	"strings"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Standardize cleans the union of every raw snapshot: it normalizes names and
// dates, drops rows without a date or location, repairs counts, flags
// inconsistent totals and keeps only the last row seen per (date, location).
// Input order matters: later rows win ties.
func Standardize(rows []models.SourcedRaw) []models.StandardizedObservation {
	title := cases.Title(language.Und)

	out := make([]models.StandardizedObservation, 0, len(rows))
	for _, r := range rows {
		if r.Date == nil || r.PortName == nil {
			continue
		}
		port := NormalizePortName(title, *r.PortName)
		if port == "" {
			continue
		}

		var extraction *string
		if r.ExtractionDate != "" {
			extraction = normalizeDateString(r.ExtractionDate)
		}

		obs := models.StandardizedObservation{
			Date:           r.Date.UTC(),
			PortName:       port,
			Year:           r.Year,
			NTanker:        copyFloat(r.NTanker),
			NCargo:         copyFloat(r.NCargo),
			NTotal:         copyFloat(r.NTotal),
			ExtractionDate: extraction,
			SourceFile:     r.SourceFile,
		}
		RepairCounts(&obs)
		out = append(out, obs)
	}

	out = DedupKeepLast(out)
	for i := range out {
		out[i].MonthBucket = MonthBucket(out[i].Date)
	}
	return out
}

// NormalizePortName trims surrounding whitespace and title-cases each word.
func NormalizePortName(title cases.Caser, name string) string {
	return title.String(strings.TrimSpace(name))
}

// RepairCounts turns negative counts into missing values, fills a missing
// total from tanker+cargo and flags totals that disagree with that sum at
// three decimals. Rows without a reference sum are never flagged.
func RepairCounts(o *models.StandardizedObservation) {
	o.NTanker = dropNegative(o.NTanker)
	o.NCargo = dropNegative(o.NCargo)
	o.NTotal = dropNegative(o.NTotal)

	o.TotalInconsistent = false
	if o.NTanker == nil || o.NCargo == nil {
		return
	}
	sum := *o.NTanker + *o.NCargo
	if o.NTotal == nil {
		o.NTotal = &sum
		return
	}
	o.TotalInconsistent = round3(*o.NTotal) != round3(sum)
}

// DedupKeepLast orders rows by date (stable) and keeps the last row for every
// (date, location) key.
func DedupKeepLast(rows []models.StandardizedObservation) []models.StandardizedObservation {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	type key struct {
		date int64
		port string
	}
	last := make(map[key]int, len(rows))
	for i, r := range rows {
		last[key{r.Date.UnixNano(), r.PortName}] = i
	}

	out := make([]models.StandardizedObservation, 0, len(last))
	for i, r := range rows {
		if last[key{r.Date.UnixNano(), r.PortName}] == i {
			out = append(out, r)
		}
	}
	return out
}

// MonthBucket returns the first day of t's month as YYYY-MM-01.
func MonthBucket(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func dropNegative(f *float64) *float64 {
	if f == nil || *f < 0 {
		return nil
	}
	return f
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
