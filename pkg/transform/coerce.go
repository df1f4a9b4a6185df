package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// toFloat coerces a source attribute to a number. Anything that is not a
// finite number or a numeric string is missing.
func toFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// toInt coerces to an integer; non-integral numbers are missing.
func toInt(v any) *int64 {
	f := toFloat(v)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	i := int64(*f)
	return &i
}

// epochMillisToTime interprets v as milliseconds since the Unix epoch.
// Unparsable values yield nil.
func epochMillisToTime(v any) *time.Time {
	f := toFloat(v)
	if f == nil {
		return nil
	}
	t := time.UnixMilli(int64(*f)).UTC()
	return &t
}

func toText(v any) *string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return &x
	default:
		s := fmt.Sprint(x)
		return &s
	}
}

var extractionDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102",
}

// normalizeDateString re-renders a date-like string as YYYY-MM-DD.
func normalizeDateString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range extractionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01-02")
			return &out
		}
	}
	return nil
}

// round3 rounds half to even at three decimals, as columnar tooling does.
func round3(f float64) float64 {
	return math.RoundToEven(f*1000) / 1000
}
