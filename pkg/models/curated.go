package models

import "time"

const CuratedTableName = "chokepoints_curated"

// Rename maps a standardized column to its external name.
type Rename struct {
	From string
	To   string
}

// CuratedRenames is the naming contract between the standardized and curated zones.
var CuratedRenames = []Rename{
	{From: "date", To: "ref_date"},
	{From: "month_bucket", To: "month_bucket"},
	{From: "year", To: "year_num"},
	{From: "portname", To: "port_name"},
	{From: "n_tanker", To: "tanker_count"},
	{From: "n_cargo", To: "cargo_count"},
	{From: "n_total", To: "total_vessel_count"},
	{From: "extraction_date", To: "extraction_date"},
	{From: "source_file", To: "source_file_standardized"},
	{From: "total_inconsistent", To: "total_inconsistent"},
}

// CuratedColumns defines the fixed layout of a curated snapshot and of the
// warehouse table it is loaded into.
var CuratedColumns = []ColumnDef{
	{Name: "ref_date", Type: "Date", Parquet: parquetTimestamp},
	{Name: "month_bucket", Type: "String", Parquet: parquetString},
	{Name: "year_num", Type: "Nullable(Int64)", Parquet: parquetInt64, Optional: true},
	{Name: "port_name", Type: "LowCardinality(String)", Parquet: parquetString},
	{Name: "tanker_count", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "cargo_count", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "total_vessel_count", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "extraction_date", Type: "Nullable(String)", Parquet: parquetString, Optional: true},
	{Name: "source_file_standardized", Type: "String", Parquet: parquetString},
	{Name: "total_inconsistent", Type: "Bool", Parquet: parquetBool},
}

// CuratedObservation is the externally named, analysis-ready record.
type CuratedObservation struct {
	RefDate           time.Time `parquet:"ref_date,timestamp(millisecond)" ch:"ref_date" json:"ref_date"`
	MonthBucket       string    `parquet:"month_bucket" ch:"month_bucket" json:"month_bucket"`
	YearNum           *int64    `parquet:"year_num" ch:"year_num" json:"year_num"`
	PortName          string    `parquet:"port_name" ch:"port_name" json:"port_name"`
	TankerCount       *float64  `parquet:"tanker_count" ch:"tanker_count" json:"tanker_count"`
	CargoCount        *float64  `parquet:"cargo_count" ch:"cargo_count" json:"cargo_count"`
	TotalVesselCount  *float64  `parquet:"total_vessel_count" ch:"total_vessel_count" json:"total_vessel_count"`
	ExtractionDate    *string   `parquet:"extraction_date" ch:"extraction_date" json:"extraction_date"`
	SourceFile        string    `parquet:"source_file_standardized" ch:"source_file_standardized" json:"source_file_standardized"`
	TotalInconsistent bool      `parquet:"total_inconsistent" ch:"total_inconsistent" json:"total_inconsistent"`
}

// RenameColumn returns the curated name of a standardized column, or the
// name unchanged when the table has no entry for it.
func RenameColumn(name string) string {
	for _, r := range CuratedRenames {
		if r.From == name {
			return r.To
		}
	}
	return name
}
