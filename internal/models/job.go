package models

import "time"

// JobStatus is the lifecycle state of a split job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// SplitJob is an asynchronous request to split one document. The input
// bytes live in object storage under InputKey; completed page artifacts
// live under OutputPrefix, one object per page.
type SplitJob struct {
	ID           string    `json:"id"`
	Status       JobStatus `json:"status"`
	Filename     string    `json:"filename"`
	Format       string    `json:"format"`
	DPI          float64   `json:"dpi"`
	InputKey     string    `json:"inputKey"`
	OutputPrefix string    `json:"outputPrefix"`
	PageCount    int       `json:"pageCount"`
	FormatTag    string    `json:"formatTag,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
