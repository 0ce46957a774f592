package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// BulkRepository persists import/export jobs and per-row import errors.
type BulkRepository interface {
	CreateImportJob(ctx context.Context, job *domain.ImportJob) error
	GetImportJob(ctx context.Context, id string) (*domain.ImportJob, error)
	// FindImportByHash locates a previous upload of the same file for an entity.
	FindImportByHash(ctx context.Context, entity, fileHash string) (*domain.ImportJob, error)
	ListImportJobs(ctx context.Context, entity, status string, limit int) ([]*domain.ImportJob, error)
	UpdateImportJob(ctx context.Context, job *domain.ImportJob) error
	// RunningImportExists reports whether another import for the entity is
	// queued or running, excluding the given job id.
	RunningImportExists(ctx context.Context, entity, excludeID string) (bool, error)

	ReplaceRowErrors(ctx context.Context, jobID string, errs []domain.RowError) error
	ListRowErrors(ctx context.Context, jobID string, limit int) ([]domain.RowError, error)

	CreateExportJob(ctx context.Context, job *domain.ExportJob) error
	GetExportJob(ctx context.Context, id string) (*domain.ExportJob, error)
	// ListExportJobs returns recent export jobs, optionally filtered by status.
	ListExportJobs(ctx context.Context, status string, limit int) ([]*domain.ExportJob, error)
	UpdateExportJob(ctx context.Context, job *domain.ExportJob) error
}
