package pipeline

import "github.com/yegor77/pipeline-portwatch/pkg/transform"

// RawSidecar is the metadata document written next to a raw snapshot.
type RawSidecar struct {
	RunID          string   `json:"run_id"`
	ExtractionDate string   `json:"extraction_date"`
	TotalRecords   int      `json:"total_records"`
	Chokepoints    []string `json:"chokepoints"`
	Years          []int    `json:"years"`
	OutputFile     string   `json:"output_file"`
	Columns        []string `json:"columns"`
	LatestDate     *string  `json:"latest_date"`
	PairsAbandoned int      `json:"pairs_abandoned"`
}

// StandardizedSidecar is the metadata document written next to a standardized snapshot.
type StandardizedSidecar struct {
	RunID         string                              `json:"run_id"`
	ProcessedDate string                              `json:"processed_date"`
	OutputFile    string                              `json:"output_file"`
	Records       int                                 `json:"records"`
	Columns       []string                            `json:"columns"`
	Codec         string                              `json:"codec"`
	Quality       transform.StandardizedQualityReport `json:"quality"`
	Sources       []string                            `json:"sources"`
}

// CuratedSidecar is the metadata document written next to a curated snapshot.
type CuratedSidecar struct {
	RunID              string                         `json:"run_id"`
	ProcessedDate      string                         `json:"processed_date"`
	OutputFile         string                         `json:"output_file"`
	Records            int                            `json:"records"`
	Columns            []string                       `json:"columns"`
	Codec              string                         `json:"codec"`
	Quality            transform.CuratedQualityReport `json:"quality"`
	SourceStandardized string                         `json:"source_standardized"`
}
