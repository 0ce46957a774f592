package ports

import (
	"context"
	"io"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// UploadImportInput carries an uploaded spreadsheet destined for import.
type UploadImportInput struct {
	Entity      string
	Mode        string // upsert, create_only, update_only
	FileName    string
	ContentType string
	Body        io.Reader
	CreatedBy   string
}

// ImportPreview summarizes a validation pass before the user confirms.
type ImportPreview struct {
	Rows      int               `json:"rows"`
	Errors    int               `json:"errors"`
	Sample    [][]string        `json:"sample,omitempty"`
	RowErrors []domain.RowError `json:"row_errors,omitempty"`
	Status    domain.JobStatus  `json:"status"`
}

// ExportResult is returned by Export. Small data sets are exported inline
// and carry a download URL; larger ones return the queued job instead.
type ExportResult struct {
	URL string
	Job *domain.ExportJob
}

// BulkService orchestrates the upload → validate → confirm → run import
// lifecycle and synchronous or queued exports.
type BulkService interface {
	Template(entity string) ([]byte, string, error)

	Upload(ctx context.Context, input UploadImportInput) (*domain.ImportJob, error)
	Validate(ctx context.Context, jobID string) (*ImportPreview, error)
	// Confirm marks a validated job as queued. The transport layer hands the
	// job to the dispatcher afterwards.
	Confirm(ctx context.Context, jobID string) (*domain.ImportJob, error)
	GetImport(ctx context.Context, jobID string) (*domain.ImportJob, error)
	ListImports(ctx context.Context, entity, status string) ([]*domain.ImportJob, error)
	ListErrors(ctx context.Context, jobID string) ([]domain.RowError, error)

	Export(ctx context.Context, entity, createdBy string) (*ExportResult, error)
	GetExport(ctx context.Context, jobID string) (*domain.ExportJob, error)
	ListExports(ctx context.Context) ([]*domain.ExportJob, error)
}

// BulkRunner executes queued jobs. Implemented by the bulk service and
// consumed by the dispatcher workers.
type BulkRunner interface {
	RunImport(ctx context.Context, jobID string) error
	RunExport(ctx context.Context, jobID string) error
}
