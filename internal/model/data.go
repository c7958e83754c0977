package model

import "time"

// ExportResult represents one artifact written by the pipeline
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "png", "json"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Bytes       int64     `json:"bytes"`
	ExportedAt  time.Time `json:"exported_at"`
}
