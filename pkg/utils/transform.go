package utils

import (
	"strings"
	"time"
)

// Dedup removes repeated entries keeping first-seen order. Entries are
// trimmed before comparison.
func Dedup(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range in {
		e = strings.TrimSpace(e)
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// DateKey formats t as YYYYMMDD, the suffix used in snapshot file names.
func DateKey(t time.Time) string {
	return t.Format("20060102")
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
