package models

import "time"

// SnapshotEvent announces a snapshot written by a stage.
type SnapshotEvent struct {
	Zone  string    `json:"zone"`
	Path  string    `json:"path"`
	Rows  int       `json:"rows"`
	Codec string    `json:"codec"`
	RunID string    `json:"run_id"`
	At    time.Time `json:"at"`
}
