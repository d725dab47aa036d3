package importjob

import (
	"context"
	"database/sql"
	"time"
)

// JobType enumerates the supported import job variants.
type JobType string

const (
	// JobTypeChecklistText parses pasted checklist text into a set.
	JobTypeChecklistText JobType = "checklist_text"
	// JobTypeTCDBSet scrapes a TCDB set page and imports it.
	JobTypeTCDBSet JobType = "tcdb_set"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job models the database representation of an import job. Payload holds
// the checklist text for checklist jobs and the TCDB set ID for scrape
// jobs.
type Job struct {
	JobID           string
	JobType         JobType
	Sport           string
	SetID           sql.NullInt32
	SetName         sql.NullString
	Payload         sql.NullString
	Status          JobStatus
	StatusMessage   sql.NullString
	ProgressCurrent int
	ProgressTotal   int
	LastError       sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       sql.NullTime
	CompletedAt     sql.NullTime
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// ProgressFunc receives progress callbacks from a runner.
type ProgressFunc func(current, total int, message string)

// Runner executes one claimed job.
type Runner interface {
	Run(ctx context.Context, job *Job, progress ProgressFunc) error
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}
