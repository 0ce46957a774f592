package domain

import (
	"errors"
	"time"
)

// JobStatus is the lifecycle state of an import or export job.
type JobStatus string

const (
	JobUploaded       JobStatus = "uploaded"
	JobQueued         JobStatus = "queued"
	JobRunning        JobStatus = "running"
	JobReadyToConfirm JobStatus = "ready_to_confirm"
	JobCompleted      JobStatus = "completed"
	JobFailed         JobStatus = "failed"
)

// ImportMode controls how existing rows are treated during an import.
type ImportMode string

const (
	ModeUpsert     ImportMode = "upsert"
	ModeCreateOnly ImportMode = "create_only"
	ModeUpdateOnly ImportMode = "update_only"
)

var ErrJobNotFound = errors.New("bulk job not found")
var ErrJobAlreadyRun = errors.New("job already executed")
var ErrInvalidMode = errors.New("invalid import mode")
var ErrJobNotValidated = errors.New("job has not been validated yet")
var ErrDuplicateFile = errors.New("file already imported")
var ErrImportInProgress = errors.New("import already in progress for entity")
var ErrUnsupportedEntity = errors.New("unsupported bulk entity")

// ValidImportMode reports whether m is a known import mode.
func ValidImportMode(m ImportMode) bool {
	switch m {
	case ModeUpsert, ModeCreateOnly, ModeUpdateOnly:
		return true
	}
	return false
}

// ImportJob tracks a bulk import through upload, validation, and execution.
type ImportJob struct {
	ID         string     `json:"id"`
	Entity     string     `json:"entity"`
	Mode       ImportMode `json:"mode"`
	Status     JobStatus  `json:"status"`
	FileURL    string     `json:"file_url"`
	FileName   string     `json:"file_name"`
	FileSize   int64      `json:"file_size"`
	FileHash   string     `json:"file_hash"`
	CreatedBy  string     `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	// Summary is serialized to JSON in the summary_json column.
	Summary *ImportSummary `json:"summary,omitempty"`
}

// ImportSummary is the per-job outcome tally persisted after a run.
type ImportSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// RowError is a validation or execution failure for a single file row.
type RowError struct {
	JobID     string `json:"-"`
	RowNumber int    `json:"row_number"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
}

// ExportJob tracks an asynchronous bulk export.
type ExportJob struct {
	ID         string     `json:"id"`
	Entity     string     `json:"entity"`
	Status     JobStatus  `json:"status"`
	FileURL    string     `json:"file_url,omitempty"`
	FileName   string     `json:"file_name,omitempty"`
	FileSize   int64      `json:"file_size,omitempty"`
	CreatedBy  string     `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Exported   int        `json:"exported"`
}
