package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

type BulkRepository struct {
	db *sql.DB
}

func NewBulkRepository(db *sql.DB) *BulkRepository {
	return &BulkRepository{db: db}
}

const importJobColumns = `id, entity, mode, status, file_url, file_name, file_size, file_hash, created_by, created_at, started_at, finished_at, summary_json`

func (r *BulkRepository) CreateImportJob(ctx context.Context, job *domain.ImportJob) error {
	summary, err := marshalSummary(job.Summary)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO import_jobs (id, entity, mode, status, file_url, file_name, file_size, file_hash, created_by, created_at, started_at, finished_at, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Entity, job.Mode, job.Status, job.FileURL, job.FileName, job.FileSize,
		job.FileHash, nullStr(job.CreatedBy), job.CreatedAt, job.StartedAt, job.FinishedAt, summary,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateFile
		}
		return fmt.Errorf("insert import job: %w", err)
	}
	return nil
}

func (r *BulkRepository) GetImportJob(ctx context.Context, id string) (*domain.ImportJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+importJobColumns+` FROM import_jobs WHERE id = ?`, id)
	return scanImportJob(row)
}

func (r *BulkRepository) FindImportByHash(ctx context.Context, entity, fileHash string) (*domain.ImportJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+importJobColumns+` FROM import_jobs WHERE entity = ? AND file_hash = ?`,
		entity, fileHash)
	return scanImportJob(row)
}

func (r *BulkRepository) ListImportJobs(ctx context.Context, entity, status string, limit int) ([]*domain.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE 1=1`
	var args []any
	if entity != "" {
		query += ` AND entity = ?`
		args = append(args, entity)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *BulkRepository) UpdateImportJob(ctx context.Context, job *domain.ImportJob) error {
	summary, err := marshalSummary(job.Summary)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE import_jobs SET status = ?, started_at = ?, finished_at = ?, summary_json = ? WHERE id = ?`,
		job.Status, job.StartedAt, job.FinishedAt, summary, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update import job: %w", err)
	}
	return requireAffected(res, domain.ErrJobNotFound)
}

func (r *BulkRepository) RunningImportExists(ctx context.Context, entity, excludeID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM import_jobs
		 WHERE entity = ? AND id != ? AND status IN ('queued', 'running')`,
		entity, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check running imports: %w", err)
	}
	return n > 0, nil
}

// ReplaceRowErrors swaps the stored row errors for a job in one transaction,
// so re-validating a file never accumulates stale entries.
func (r *BulkRepository) ReplaceRowErrors(ctx context.Context, jobID string, errs []domain.RowError) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM import_row_errors WHERE import_job_id = ?`, jobID); err != nil {
		return fmt.Errorf("clear row errors: %w", err)
	}
	for _, re := range errs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO import_row_errors (import_job_id, row_number, field, message, severity)
			 VALUES (?, ?, ?, ?, ?)`,
			jobID, re.RowNumber, nullStr(re.Field), re.Message, re.Severity,
		); err != nil {
			return fmt.Errorf("insert row error: %w", err)
		}
	}
	return tx.Commit()
}

func (r *BulkRepository) ListRowErrors(ctx context.Context, jobID string, limit int) ([]domain.RowError, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT row_number, field, message, severity FROM import_row_errors
		 WHERE import_job_id = ? ORDER BY row_number LIMIT ?`, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("list row errors: %w", err)
	}
	defer rows.Close()

	var errs []domain.RowError
	for rows.Next() {
		var re domain.RowError
		var field sql.NullString
		if err := rows.Scan(&re.RowNumber, &field, &re.Message, &re.Severity); err != nil {
			return nil, fmt.Errorf("scan row error: %w", err)
		}
		re.JobID = jobID
		re.Field = fromNull(field)
		errs = append(errs, re)
	}
	return errs, rows.Err()
}

const exportJobColumns = `id, entity, status, file_url, file_name, file_size, created_by, created_at, started_at, finished_at, exported`

func (r *BulkRepository) CreateExportJob(ctx context.Context, job *domain.ExportJob) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO export_jobs (id, entity, status, file_url, file_name, file_size, created_by, created_at, started_at, finished_at, exported)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Entity, job.Status, nullStr(job.FileURL), nullStr(job.FileName), job.FileSize,
		nullStr(job.CreatedBy), job.CreatedAt, job.StartedAt, job.FinishedAt, job.Exported,
	)
	if err != nil {
		return fmt.Errorf("insert export job: %w", err)
	}
	return nil
}

func (r *BulkRepository) GetExportJob(ctx context.Context, id string) (*domain.ExportJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+exportJobColumns+` FROM export_jobs WHERE id = ?`, id)
	return scanExportJob(row)
}

func (r *BulkRepository) ListExportJobs(ctx context.Context, status string, limit int) ([]*domain.ExportJob, error) {
	query := `SELECT ` + exportJobColumns + ` FROM export_jobs WHERE 1=1`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list export jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.ExportJob
	for rows.Next() {
		job, err := scanExportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *BulkRepository) UpdateExportJob(ctx context.Context, job *domain.ExportJob) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE export_jobs SET status = ?, file_url = ?, file_name = ?, file_size = ?, started_at = ?, finished_at = ?, exported = ? WHERE id = ?`,
		job.Status, nullStr(job.FileURL), nullStr(job.FileName), job.FileSize,
		job.StartedAt, job.FinishedAt, job.Exported, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update export job: %w", err)
	}
	return requireAffected(res, domain.ErrJobNotFound)
}

func marshalSummary(s *domain.ImportSummary) (any, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return string(b), nil
}

func scanImportJob(row rowScanner) (*domain.ImportJob, error) {
	var job domain.ImportJob
	var createdBy, summary sql.NullString
	var startedAt, finishedAt sql.NullTime
	err := row.Scan(&job.ID, &job.Entity, &job.Mode, &job.Status, &job.FileURL, &job.FileName,
		&job.FileSize, &job.FileHash, &createdBy, &job.CreatedAt, &startedAt, &finishedAt, &summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("scan import job: %w", err)
	}
	job.CreatedBy = fromNull(createdBy)
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time.UTC()
		job.FinishedAt = &t
	}
	if summary.Valid && summary.String != "" {
		var s domain.ImportSummary
		if err := json.Unmarshal([]byte(summary.String), &s); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		job.Summary = &s
	}
	return &job, nil
}

func scanExportJob(row rowScanner) (*domain.ExportJob, error) {
	var job domain.ExportJob
	var fileURL, fileName, createdBy sql.NullString
	var fileSize sql.NullInt64
	var startedAt, finishedAt sql.NullTime
	err := row.Scan(&job.ID, &job.Entity, &job.Status, &fileURL, &fileName, &fileSize,
		&createdBy, &job.CreatedAt, &startedAt, &finishedAt, &job.Exported)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("scan export job: %w", err)
	}
	job.FileURL = fromNull(fileURL)
	job.FileName = fromNull(fileName)
	job.CreatedBy = fromNull(createdBy)
	if fileSize.Valid {
		job.FileSize = fileSize.Int64
	}
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time.UTC()
		job.FinishedAt = &t
	}
	return &job, nil
}
