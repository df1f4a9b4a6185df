package models

import "time"

// StandardizedColumns defines the fixed layout of a standardized snapshot.
var StandardizedColumns = []ColumnDef{
	{Name: "date", Type: "DateTime64(3)", Parquet: parquetTimestamp},
	{Name: "month_bucket", Type: "String", Parquet: parquetString},
	{Name: "portname", Type: "String", Parquet: parquetString},
	{Name: "year", Type: "Nullable(Int64)", Parquet: parquetInt64, Optional: true},
	{Name: "n_tanker", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "n_cargo", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "n_total", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "extraction_date", Type: "Nullable(String)", Parquet: parquetString, Optional: true},
	{Name: "source_file", Type: "String", Parquet: parquetString},
	{Name: "total_inconsistent", Type: "Bool", Parquet: parquetBool},
}

// StandardizedObservation is a cleaned, repaired and deduplicated observation.
type StandardizedObservation struct {
	Date              time.Time `parquet:"date,timestamp(millisecond)" json:"date"`
	MonthBucket       string    `parquet:"month_bucket" json:"month_bucket"`
	PortName          string    `parquet:"portname" json:"portname"`
	Year              *int64    `parquet:"year" json:"year"`
	NTanker           *float64  `parquet:"n_tanker" json:"n_tanker"`
	NCargo            *float64  `parquet:"n_cargo" json:"n_cargo"`
	NTotal            *float64  `parquet:"n_total" json:"n_total"`
	ExtractionDate    *string   `parquet:"extraction_date" json:"extraction_date"`
	SourceFile        string    `parquet:"source_file" json:"source_file"`
	TotalInconsistent bool      `parquet:"total_inconsistent" json:"total_inconsistent"`
}
