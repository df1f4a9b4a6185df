package models

import "time"

// RawColumns defines the fixed layout of a raw snapshot.
var RawColumns = []ColumnDef{
	{Name: "date", Type: "Nullable(DateTime64(3))", Parquet: parquetTimestamp, Optional: true},
	{Name: "portname", Type: "Nullable(String)", Parquet: parquetString, Optional: true},
	{Name: "n_tanker", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "n_cargo", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "year", Type: "Nullable(Int64)", Parquet: parquetInt64, Optional: true},
	{Name: "n_total", Type: "Nullable(Float64)", Parquet: parquetDouble, Optional: true},
	{Name: "extraction_date", Type: "String", Parquet: parquetString},
}

// RawObservation is one daily observation as acquired from the source.
// A nil Date means the source value could not be coerced.
type RawObservation struct {
	Date           *time.Time `parquet:"date,timestamp(millisecond)" json:"date"`
	PortName       *string    `parquet:"portname" json:"portname"`
	NTanker        *float64   `parquet:"n_tanker" json:"n_tanker"`
	NCargo         *float64   `parquet:"n_cargo" json:"n_cargo"`
	Year           *int64     `parquet:"year" json:"year"`
	NTotal         *float64   `parquet:"n_total" json:"n_total"`
	ExtractionDate string     `parquet:"extraction_date" json:"extraction_date"`
}

// SourcedRaw is a raw observation tagged with the snapshot it was read from.
type SourcedRaw struct {
	RawObservation
	SourceFile string
}
