package job

import "fairimport/internal/platform/api"

// Job is the internal storage shape for a background job's status and
// result. It lives in redis only; the API exposes it read-only.
type Job struct {
	JobID   string    `json:"job_id"`
	Type    Type      `json:"type"`
	Status  Status    `json:"status"`
	Error   string    `json:"error,omitempty"`
	Results JobResult `json:"results,omitempty"`
}

type Type string

const (
	TypeDuplicateReport Type = "duplicate_report"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type JobResult struct {
	DuplicateReport *api.DuplicateReport `json:"duplicate_report,omitempty"`
}
