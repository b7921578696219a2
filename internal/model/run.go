package model

import "time"

// ExportRun is one tracked execution of the export pipeline.
type ExportRun struct {
	ID        string       `json:"id"`
	Config    ExportConfig `json:"config"`
	Status    string       `json:"status"` // pending, running, completed, failed
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// RunError is an error recorded against a run.
type RunError struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"runId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// RunFile is one JSON file produced by a run.
type RunFile struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"runId"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}
