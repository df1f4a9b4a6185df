package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ColumnDef describes one column of a zone's fixed layout.
type ColumnDef struct {
	// Name is the column name inside the snapshot file.
	Name string

	// Type is the ClickHouse data type used when the table is loaded into the warehouse.
	Type string

	// Parquet is the physical type fragment for the secondary parquet engine
	// (e.g. "type=DOUBLE", "type=BYTE_ARRAY, convertedtype=UTF8").
	Parquet string

	// Optional marks columns that may hold missing values.
	Optional bool
}

// SQL returns the column definition for CREATE TABLE statements.
func (c ColumnDef) SQL() string {
	return fmt.Sprintf("%s %s", c.Name, c.Type)
}

// ColumnsToSchemaSQL converts a list of ColumnDef to a CREATE TABLE column block.
func ColumnsToSchemaSQL(columns []ColumnDef) string {
	var parts []string
	for _, col := range columns {
		parts = append(parts, col.SQL())
	}
	return strings.Join(parts, ",\n\t\t\t")
}

// ColumnsToNameList returns the column names in layout order.
func ColumnsToNameList(columns []ColumnDef) []string {
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.Name)
	}
	return names
}

type parquetSchemaNode struct {
	Tag    string              `json:"Tag"`
	Fields []parquetSchemaNode `json:"Fields,omitempty"`
}

// ParquetJSONSchema renders the layout as the JSON schema document accepted
// by xitongsys/parquet-go's JSON writer.
func ParquetJSONSchema(columns []ColumnDef) (string, error) {
	root := parquetSchemaNode{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, col := range columns {
		if col.Parquet == "" {
			return "", fmt.Errorf("column %s has no parquet type", col.Name)
		}
		repetition := "REQUIRED"
		if col.Optional {
			repetition = "OPTIONAL"
		}
		root.Fields = append(root.Fields, parquetSchemaNode{
			Tag: fmt.Sprintf("name=%s, %s, repetitiontype=%s", col.Name, col.Parquet, repetition),
		})
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const (
	parquetDouble    = "type=DOUBLE"
	parquetInt64     = "type=INT64"
	parquetBool      = "type=BOOLEAN"
	parquetString    = "type=BYTE_ARRAY, convertedtype=UTF8"
	parquetTimestamp = "type=INT64, convertedtype=TIMESTAMP_MILLIS"
)
