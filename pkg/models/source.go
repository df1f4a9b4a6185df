package models

import "strings"

// SourceField maps the spellings a source attribute has been seen under to
// its canonical column name.
type SourceField struct {
	Canonical string
	Aliases   []string
}

// SourceFields is the rename table applied to feature attributes. Matching
// is case-insensitive; the canonical name always matches itself.
var SourceFields = []SourceField{
	{Canonical: "date", Aliases: []string{"date", "data"}},
	{Canonical: "portname", Aliases: []string{"portname", "port_name", "port"}},
	{Canonical: "n_tanker", Aliases: []string{"n_tanker", "ntanker", "tanker"}},
	{Canonical: "n_cargo", Aliases: []string{"n_cargo", "ncargo", "cargo"}},
	{Canonical: "year", Aliases: []string{"year", "ano"}},
	{Canonical: "n_total", Aliases: []string{"n_total", "ntotal", "total"}},
}

var sourceAliasIndex = func() map[string]string {
	idx := make(map[string]string)
	for _, f := range SourceFields {
		idx[f.Canonical] = f.Canonical
		for _, a := range f.Aliases {
			idx[strings.ToLower(a)] = f.Canonical
		}
	}
	return idx
}()

// CanonicalAttributes lower-cases attribute keys and renames known aliases.
// Unknown keys are kept lower-cased. When two keys collapse to the same
// canonical name the one spelled canonically wins.
func CanonicalAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		lower := strings.ToLower(strings.TrimSpace(k))
		name, ok := sourceAliasIndex[lower]
		if !ok {
			name = lower
		}
		if _, taken := out[name]; taken && lower != name {
			continue
		}
		out[name] = v
	}
	return out
}
