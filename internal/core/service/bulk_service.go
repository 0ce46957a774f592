package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/api/metrics"
	"github.com/eagl/fieldops-api/internal/bulk"
	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
	"github.com/eagl/fieldops-api/internal/infrastructure/storage"
)

// DedupChecker abstracts the upload idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, entity, fileHash string) (bool, error)
	Mark(ctx context.Context, entity, fileHash string) error
}

const (
	previewSampleRows = 5
	previewErrorRows  = 50
	listJobsLimit     = 50
	listErrorsLimit   = 200
	severityError     = "error"
	severityWarning   = "warning"
)

// BulkService orchestrates the upload, validate, confirm, run lifecycle for
// imports and the sync-or-queued path for exports. It also implements
// ports.BulkRunner, which the dispatcher workers call.
type BulkService struct {
	repo       ports.BulkRepository
	store      storage.Store
	dedup      DedupChecker
	clients    ports.ClientRepository
	assets     ports.AssetRepository
	users      ports.UserRepository
	workOrders ports.WorkOrderRepository

	maxFileBytes    int64
	exportSyncLimit int
	logger          zerolog.Logger
}

func NewBulkService(
	repo ports.BulkRepository,
	store storage.Store,
	dedup DedupChecker,
	clients ports.ClientRepository,
	assets ports.AssetRepository,
	users ports.UserRepository,
	workOrders ports.WorkOrderRepository,
	maxFileBytes int64,
	exportSyncLimit int,
	logger zerolog.Logger,
) *BulkService {
	return &BulkService{
		repo:            repo,
		store:           store,
		dedup:           dedup,
		clients:         clients,
		assets:          assets,
		users:           users,
		workOrders:      workOrders,
		maxFileBytes:    maxFileBytes,
		exportSyncLimit: exportSyncLimit,
		logger:          logger,
	}
}

// Template returns an empty XLSX template for an importable entity.
func (s *BulkService) Template(entity string) ([]byte, string, error) {
	cfg, ok := bulk.Lookup(entity)
	if !ok || !cfg.Importable {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, entity)
	}
	return bulk.BuildTemplate(cfg)
}

func (s *BulkService) Upload(ctx context.Context, input ports.UploadImportInput) (*domain.ImportJob, error) {
	cfg, ok := bulk.Lookup(input.Entity)
	if !ok || !cfg.Importable {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, input.Entity)
	}

	mode := domain.ImportMode(input.Mode)
	if input.Mode == "" {
		mode = domain.ModeUpsert
	}
	if !domain.ValidImportMode(mode) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, input.Mode)
	}

	switch strings.ToLower(filepath.Ext(input.FileName)) {
	case ".xlsx", ".csv":
	default:
		return nil, bulk.ErrUnsupportedFormat
	}

	jobID := uuid.NewString()
	path := fmt.Sprintf("imports/%s/%s/%s", input.Entity, jobID, input.FileName)
	res, err := s.store.Put(ctx, path, input.Body, input.ContentType, s.maxFileBytes)
	if err != nil {
		return nil, err
	}

	// Fast idempotency check in Redis; the DB unique constraint on
	// (entity, file_hash) is the authoritative one.
	isDup, err := s.dedup.IsDuplicate(ctx, input.Entity, res.SHA256)
	if err != nil {
		s.logger.Warn().Err(err).Str("entity", input.Entity).Msg("dedup check failed, falling back to database")
	} else if isDup {
		metrics.BulkDedupTotal.WithLabelValues("hit").Inc()
		return nil, s.duplicateError(ctx, input.Entity, res.SHA256)
	}
	metrics.BulkDedupTotal.WithLabelValues("miss").Inc()

	job := &domain.ImportJob{
		ID:        jobID,
		Entity:    input.Entity,
		Mode:      mode,
		Status:    domain.JobUploaded,
		FileURL:   res.URL,
		FileName:  input.FileName,
		FileSize:  res.Size,
		FileHash:  res.SHA256,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateImportJob(ctx, job); err != nil {
		if errors.Is(err, domain.ErrDuplicateFile) {
			return nil, s.duplicateError(ctx, input.Entity, res.SHA256)
		}
		return nil, err
	}

	if markErr := s.dedup.Mark(ctx, input.Entity, res.SHA256); markErr != nil {
		s.logger.Warn().Err(markErr).Str("job_id", jobID).Msg("failed to set dedup key")
	}

	s.logger.Info().
		Str("job_id", jobID).
		Str("entity", input.Entity).
		Str("mode", string(mode)).
		Int64("size", res.Size).
		Msg("import file uploaded")
	return job, nil
}

// duplicateError names the earlier upload holding the same file, so the
// conflict response tells the caller which job to look at.
func (s *BulkService) duplicateError(ctx context.Context, entity, fileHash string) error {
	if prev, err := s.repo.FindImportByHash(ctx, entity, fileHash); err == nil {
		return fmt.Errorf("%w by job %s", domain.ErrDuplicateFile, prev.ID)
	}
	return domain.ErrDuplicateFile
}

// Validate parses the uploaded file, records per-row errors, and moves the
// job to ready_to_confirm. Rows flagged with error severity are skipped
// later at run time; they do not block confirmation. Only a header missing
// required columns fails the job.
func (s *BulkService) Validate(ctx context.Context, jobID string) (*ports.ImportPreview, error) {
	job, err := s.repo.GetImportJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	switch job.Status {
	case domain.JobUploaded, domain.JobReadyToConfirm, domain.JobFailed:
	case domain.JobQueued, domain.JobRunning:
		return nil, domain.ErrImportInProgress
	default:
		return nil, domain.ErrJobAlreadyRun
	}

	cfg, ok := bulk.Lookup(job.Entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, job.Entity)
	}

	header, rows, err := s.parseStored(ctx, job)
	if err != nil {
		return nil, err
	}

	colIdx, missing := cfg.ResolveColumns(header)
	var rowErrs []domain.RowError
	for _, key := range missing {
		rowErrs = append(rowErrs, domain.RowError{
			JobID:     job.ID,
			RowNumber: 1,
			Field:     key,
			Message:   fmt.Sprintf("missing required column %q", key),
			Severity:  severityError,
		})
	}

	status := domain.JobReadyToConfirm
	if len(missing) > 0 {
		status = domain.JobFailed
	} else {
		checker := s.rowChecker(ctx, job.Entity)
		for i, row := range rows {
			rowNum := i + 2 // header is row 1
			if extra := len(row) - len(header); extra > 0 {
				rowErrs = append(rowErrs, domain.RowError{
					JobID:     job.ID,
					RowNumber: rowNum,
					Message:   fmt.Sprintf("row has %d cells beyond the header, extras are ignored", extra),
					Severity:  severityWarning,
				})
			}
			values := bulk.RowValues(colIdx, row)
			for _, re := range checker(cfg, rowNum, values) {
				re.JobID = job.ID
				rowErrs = append(rowErrs, re)
			}
		}
	}

	if err := s.repo.ReplaceRowErrors(ctx, job.ID, rowErrs); err != nil {
		return nil, err
	}
	job.Status = status
	if err := s.repo.UpdateImportJob(ctx, job); err != nil {
		return nil, err
	}

	sample := rows
	if len(sample) > previewSampleRows {
		sample = sample[:previewSampleRows]
	}
	previewErrs := rowErrs
	if len(previewErrs) > previewErrorRows {
		previewErrs = previewErrs[:previewErrorRows]
	}

	errCount := 0
	for _, re := range rowErrs {
		if re.Severity == severityError {
			errCount++
		}
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Int("rows", len(rows)).
		Int("errors", errCount).
		Int("warnings", len(rowErrs)-errCount).
		Str("status", string(status)).
		Msg("import file validated")

	return &ports.ImportPreview{
		Rows:      len(rows),
		Errors:    errCount,
		Sample:    sample,
		RowErrors: previewErrs,
		Status:    status,
	}, nil
}

// Confirm moves a validated job to queued. Only one import per entity may be
// queued or running at a time; the caller enqueues the job afterwards.
func (s *BulkService) Confirm(ctx context.Context, jobID string) (*domain.ImportJob, error) {
	job, err := s.repo.GetImportJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobReadyToConfirm {
		return nil, domain.ErrJobNotValidated
	}

	running, err := s.repo.RunningImportExists(ctx, job.Entity, job.ID)
	if err != nil {
		return nil, err
	}
	if running {
		return nil, domain.ErrImportInProgress
	}

	job.Status = domain.JobQueued
	if err := s.repo.UpdateImportJob(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info().Str("job_id", job.ID).Str("entity", job.Entity).Msg("import confirmed")
	return job, nil
}

func (s *BulkService) GetImport(ctx context.Context, jobID string) (*domain.ImportJob, error) {
	return s.repo.GetImportJob(ctx, jobID)
}

func (s *BulkService) ListImports(ctx context.Context, entity, status string) ([]*domain.ImportJob, error) {
	return s.repo.ListImportJobs(ctx, entity, status, listJobsLimit)
}

func (s *BulkService) ListErrors(ctx context.Context, jobID string) ([]domain.RowError, error) {
	if _, err := s.repo.GetImportJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.repo.ListRowErrors(ctx, jobID, listErrorsLimit)
}

// RunImport executes a queued import job. Called from a dispatcher worker.
func (s *BulkService) RunImport(ctx context.Context, jobID string) error {
	job, err := s.repo.GetImportJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != domain.JobQueued {
		return fmt.Errorf("run import %s: unexpected status %s", jobID, job.Status)
	}

	start := time.Now()
	now := start.UTC()
	job.Status = domain.JobRunning
	job.StartedAt = &now
	if err := s.repo.UpdateImportJob(ctx, job); err != nil {
		return err
	}

	summary, rowErrs, runErr := s.applyImport(ctx, job)
	finished := time.Now().UTC()
	job.FinishedAt = &finished
	job.Summary = summary

	if runErr != nil {
		job.Status = domain.JobFailed
		s.logger.Error().Err(runErr).Str("job_id", job.ID).Msg("import run failed")
	} else {
		job.Status = domain.JobCompleted
		if err := s.repo.ReplaceRowErrors(ctx, job.ID, rowErrs); err != nil {
			s.logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist run row errors")
		}
	}

	if err := s.repo.UpdateImportJob(ctx, job); err != nil {
		return err
	}

	metrics.BulkJobsTotal.WithLabelValues("import", job.Entity, string(job.Status)).Inc()
	metrics.BulkJobDuration.WithLabelValues("import").Observe(time.Since(start).Seconds())
	if summary != nil {
		metrics.BulkRowsTotal.WithLabelValues(job.Entity, "created").Add(float64(summary.Created))
		metrics.BulkRowsTotal.WithLabelValues(job.Entity, "updated").Add(float64(summary.Updated))
		metrics.BulkRowsTotal.WithLabelValues(job.Entity, "skipped").Add(float64(summary.Skipped))
		metrics.BulkRowsTotal.WithLabelValues(job.Entity, "errored").Add(float64(summary.Errored))
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("entity", job.Entity).
		Str("status", string(job.Status)).
		Interface("summary", summary).
		Msg("import run finished")
	return runErr
}

func (s *BulkService) applyImport(ctx context.Context, job *domain.ImportJob) (*domain.ImportSummary, []domain.RowError, error) {
	cfg, ok := bulk.Lookup(job.Entity)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, job.Entity)
	}

	header, rows, err := s.parseStored(ctx, job)
	if err != nil {
		return nil, nil, err
	}
	colIdx, missing := cfg.ResolveColumns(header)
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("file is missing required columns: %s", strings.Join(missing, ", "))
	}

	apply, err := s.rowApplier(ctx, job.Entity)
	if err != nil {
		return nil, nil, err
	}

	summary := &domain.ImportSummary{Total: len(rows)}
	var rowErrs []domain.RowError
	for i, row := range rows {
		rowNum := i + 2
		values := bulk.RowValues(colIdx, row)
		result, applyErr := apply(ctx, job.Mode, values)
		if applyErr != nil {
			summary.Errored++
			rowErrs = append(rowErrs, domain.RowError{
				JobID:     job.ID,
				RowNumber: rowNum,
				Message:   applyErr.Error(),
				Severity:  severityError,
			})
			continue
		}
		switch result {
		case rowCreated:
			summary.Created++
		case rowUpdated:
			summary.Updated++
		case rowSkipped:
			summary.Skipped++
		}
	}
	return summary, rowErrs, nil
}

type rowResult int

const (
	rowCreated rowResult = iota
	rowUpdated
	rowSkipped
)

type rowApplier func(ctx context.Context, mode domain.ImportMode, values map[string]string) (rowResult, error)

// rowApplier returns the per-row import function for an entity. Existing
// rows are matched by natural key: clients by name, assets by client and
// name. The existing set is loaded once up front; the dispatcher guarantees
// a single import per entity runs at a time.
func (s *BulkService) rowApplier(ctx context.Context, entity string) (rowApplier, error) {
	switch entity {
	case "clients":
		existing, err := s.clients.List(ctx, true)
		if err != nil {
			return nil, err
		}
		byName := make(map[string]*domain.Client, len(existing))
		for _, c := range existing {
			byName[strings.ToLower(c.Name)] = c
		}
		return func(ctx context.Context, mode domain.ImportMode, values map[string]string) (rowResult, error) {
			name := values["name"]
			if name == "" {
				return 0, fmt.Errorf("name is required")
			}
			if found, ok := byName[strings.ToLower(name)]; ok {
				if mode == domain.ModeCreateOnly {
					return rowSkipped, nil
				}
				if v := values["document"]; v != "" {
					found.Document = v
				}
				if v := values["address"]; v != "" {
					found.Address = v
				}
				if err := s.clients.Update(ctx, found); err != nil {
					return 0, err
				}
				return rowUpdated, nil
			}
			if mode == domain.ModeUpdateOnly {
				return rowSkipped, nil
			}
			client := &domain.Client{
				ID:        uuid.NewString(),
				Name:      name,
				Document:  values["document"],
				Address:   values["address"],
				IsActive:  true,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.clients.Create(ctx, client); err != nil {
				return 0, err
			}
			byName[strings.ToLower(name)] = client
			return rowCreated, nil
		}, nil

	case "assets":
		existing, err := s.assets.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		key := func(clientID, name string) string {
			return clientID + "\x00" + strings.ToLower(name)
		}
		byKey := make(map[string]*domain.Asset, len(existing))
		for _, a := range existing {
			byKey[key(a.ClientID, a.Name)] = a
		}
		return func(ctx context.Context, mode domain.ImportMode, values map[string]string) (rowResult, error) {
			clientID := values["client_id"]
			name := values["name"]
			if clientID == "" || name == "" {
				return 0, fmt.Errorf("client_id and name are required")
			}
			if _, err := s.clients.FindByID(ctx, clientID); err != nil {
				return 0, fmt.Errorf("client %s: %w", clientID, err)
			}
			status := domain.AssetStatus(values["status"])
			if values["status"] == "" {
				status = domain.AssetOperating
			}
			if !domain.ValidAssetStatus(status) {
				return 0, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, values["status"])
			}
			if found, ok := byKey[key(clientID, name)]; ok {
				if mode == domain.ModeCreateOnly {
					return rowSkipped, nil
				}
				if v := values["asset_type"]; v != "" {
					found.AssetType = v
				}
				if v := values["location"]; v != "" {
					found.Location = v
				}
				found.Status = status
				if err := s.assets.Update(ctx, found); err != nil {
					return 0, err
				}
				return rowUpdated, nil
			}
			if mode == domain.ModeUpdateOnly {
				return rowSkipped, nil
			}
			asset := &domain.Asset{
				ID:        uuid.NewString(),
				ClientID:  clientID,
				Name:      name,
				AssetType: values["asset_type"],
				Location:  values["location"],
				Status:    status,
				IsActive:  true,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.assets.Create(ctx, asset); err != nil {
				return 0, err
			}
			byKey[key(clientID, name)] = asset
			return rowCreated, nil
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, entity)
}

type rowChecker func(cfg bulk.EntityConfig, rowNum int, values map[string]string) []domain.RowError

// rowChecker returns the validation-pass function for an entity. It only
// reports problems; nothing is written.
func (s *BulkService) rowChecker(ctx context.Context, entity string) rowChecker {
	// Client existence results are cached across rows.
	clientSeen := make(map[string]bool)
	clientExists := func(id string) bool {
		if seen, ok := clientSeen[id]; ok {
			return seen
		}
		_, err := s.clients.FindByID(ctx, id)
		clientSeen[id] = err == nil
		return err == nil
	}

	return func(cfg bulk.EntityConfig, rowNum int, values map[string]string) []domain.RowError {
		var errs []domain.RowError
		for _, col := range cfg.Columns {
			if col.Required && values[col.Key] == "" {
				errs = append(errs, domain.RowError{
					RowNumber: rowNum,
					Field:     col.Key,
					Message:   fmt.Sprintf("%s is required", col.Key),
					Severity:  severityError,
				})
			}
		}
		if entity == "assets" {
			if id := values["client_id"]; id != "" && !clientExists(id) {
				errs = append(errs, domain.RowError{
					RowNumber: rowNum,
					Field:     "client_id",
					Message:   fmt.Sprintf("client %s not found", id),
					Severity:  severityError,
				})
			}
			if v := values["status"]; v != "" && !domain.ValidAssetStatus(domain.AssetStatus(v)) {
				errs = append(errs, domain.RowError{
					RowNumber: rowNum,
					Field:     "status",
					Message:   fmt.Sprintf("unknown status %q", v),
					Severity:  severityError,
				})
			}
		}
		return errs
	}
}

func (s *BulkService) parseStored(ctx context.Context, job *domain.ImportJob) ([]string, [][]string, error) {
	rc, err := s.store.Open(ctx, job.FileURL)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	return bulk.ParseFile(rc, job.FileName)
}

// Export writes the entity's rows to a workbook. Small data sets are
// exported inline and return a download URL; anything over the sync limit
// becomes a queued job for the dispatcher.
func (s *BulkService) Export(ctx context.Context, entity, createdBy string) (*ports.ExportResult, error) {
	cfg, ok := bulk.Lookup(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, entity)
	}

	count, err := s.exportCount(ctx, entity)
	if err != nil {
		return nil, err
	}

	job := &domain.ExportJob{
		ID:        uuid.NewString(),
		Entity:    entity,
		Status:    domain.JobQueued,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	if count > int64(s.exportSyncLimit) {
		if err := s.repo.CreateExportJob(ctx, job); err != nil {
			return nil, err
		}
		s.logger.Info().Str("job_id", job.ID).Str("entity", entity).Int64("rows", count).Msg("export queued")
		return &ports.ExportResult{Job: job}, nil
	}

	url, err := s.writeExport(ctx, cfg, job)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateExportJob(ctx, job); err != nil {
		return nil, err
	}
	metrics.BulkJobsTotal.WithLabelValues("export", entity, string(job.Status)).Inc()
	return &ports.ExportResult{URL: url, Job: job}, nil
}

func (s *BulkService) GetExport(ctx context.Context, jobID string) (*domain.ExportJob, error) {
	return s.repo.GetExportJob(ctx, jobID)
}

func (s *BulkService) ListExports(ctx context.Context) ([]*domain.ExportJob, error) {
	return s.repo.ListExportJobs(ctx, "", listJobsLimit)
}

const recoverJobsLimit = 500

// RecoverPending reconciles persisted job state with the in-memory queue at
// boot. Jobs still marked running were cut off by a crash and are failed so
// they stop blocking their entity; queued jobs survive the restart and are
// returned for the caller to re-enqueue.
func (s *BulkService) RecoverPending(ctx context.Context) (imports []*domain.ImportJob, exports []*domain.ExportJob, err error) {
	stale, err := s.repo.ListImportJobs(ctx, "", string(domain.JobRunning), recoverJobsLimit)
	if err != nil {
		return nil, nil, err
	}
	for _, job := range stale {
		finished := time.Now().UTC()
		job.Status = domain.JobFailed
		job.FinishedAt = &finished
		if err := s.repo.UpdateImportJob(ctx, job); err != nil {
			return nil, nil, err
		}
		s.logger.Warn().Str("job_id", job.ID).Str("entity", job.Entity).
			Msg("import interrupted by restart, marked failed")
	}

	staleExports, err := s.repo.ListExportJobs(ctx, string(domain.JobRunning), recoverJobsLimit)
	if err != nil {
		return nil, nil, err
	}
	for _, job := range staleExports {
		finished := time.Now().UTC()
		job.Status = domain.JobFailed
		job.FinishedAt = &finished
		if err := s.repo.UpdateExportJob(ctx, job); err != nil {
			return nil, nil, err
		}
		s.logger.Warn().Str("job_id", job.ID).Str("entity", job.Entity).
			Msg("export interrupted by restart, marked failed")
	}

	imports, err = s.repo.ListImportJobs(ctx, "", string(domain.JobQueued), recoverJobsLimit)
	if err != nil {
		return nil, nil, err
	}
	exports, err = s.repo.ListExportJobs(ctx, string(domain.JobQueued), recoverJobsLimit)
	if err != nil {
		return nil, nil, err
	}
	// Listings are newest first; replay in original submission order.
	slices.Reverse(imports)
	slices.Reverse(exports)
	return imports, exports, nil
}

// RunExport executes a queued export job. Called from a dispatcher worker.
func (s *BulkService) RunExport(ctx context.Context, jobID string) error {
	job, err := s.repo.GetExportJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != domain.JobQueued {
		return fmt.Errorf("run export %s: unexpected status %s", jobID, job.Status)
	}

	cfg, ok := bulk.Lookup(job.Entity)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, job.Entity)
	}

	start := time.Now()
	now := start.UTC()
	job.Status = domain.JobRunning
	job.StartedAt = &now
	if err := s.repo.UpdateExportJob(ctx, job); err != nil {
		return err
	}

	_, runErr := s.writeExport(ctx, cfg, job)
	if runErr != nil {
		job.Status = domain.JobFailed
		s.logger.Error().Err(runErr).Str("job_id", job.ID).Msg("export run failed")
	}
	finished := time.Now().UTC()
	job.FinishedAt = &finished

	if err := s.repo.UpdateExportJob(ctx, job); err != nil {
		return err
	}
	metrics.BulkJobsTotal.WithLabelValues("export", job.Entity, string(job.Status)).Inc()
	metrics.BulkJobDuration.WithLabelValues("export").Observe(time.Since(start).Seconds())
	return runErr
}

// writeExport builds the workbook, stores it, and fills the job's file
// fields, marking it completed.
func (s *BulkService) writeExport(ctx context.Context, cfg bulk.EntityConfig, job *domain.ExportJob) (string, error) {
	rows, err := s.exportRows(ctx, cfg.Name)
	if err != nil {
		return "", err
	}
	content, fileName, err := bulk.BuildExport(cfg, rows)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("exports/%s/%s/%s", cfg.Name, job.ID, fileName)
	res, err := s.store.Put(ctx, path, bytes.NewReader(content), xlsxContentType, 0)
	if err != nil {
		return "", err
	}
	url, err := s.store.SignedURL(ctx, res.URL, exportURLExpiry)
	if err != nil {
		return "", err
	}

	finished := time.Now().UTC()
	job.Status = domain.JobCompleted
	job.FileURL = res.URL
	job.FileName = fileName
	job.FileSize = res.Size
	job.Exported = len(rows)
	job.FinishedAt = &finished

	s.logger.Info().Str("job_id", job.ID).Str("entity", cfg.Name).Int("rows", len(rows)).Msg("export written")
	return url, nil
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportURLExpiry = 15 * time.Minute
)

func (s *BulkService) exportCount(ctx context.Context, entity string) (int64, error) {
	switch entity {
	case "clients":
		return s.clients.Count(ctx)
	case "assets":
		return s.assets.Count(ctx)
	case "work_orders":
		return s.workOrders.Count(ctx)
	case "users":
		users, err := s.users.List(ctx, true)
		if err != nil {
			return 0, err
		}
		return int64(len(users)), nil
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, entity)
}

func (s *BulkService) exportRows(ctx context.Context, entity string) ([][]string, error) {
	switch entity {
	case "clients":
		clients, err := s.clients.List(ctx, true)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(clients))
		for _, c := range clients {
			rows = append(rows, []string{c.Name, c.Document, c.Address})
		}
		return rows, nil

	case "assets":
		assets, err := s.assets.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(assets))
		for _, a := range assets {
			rows = append(rows, []string{a.ClientID, a.Name, a.AssetType, a.Location, string(a.Status)})
		}
		return rows, nil

	case "users":
		users, err := s.users.List(ctx, true)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{u.Name, u.Email, u.Role, u.ClientID})
		}
		return rows, nil

	case "work_orders":
		total, err := s.workOrders.Count(ctx)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, nil
		}
		items, _, err := s.workOrders.List(ctx, ports.ListWorkOrdersFilter{Page: 1, Limit: int(total)})
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(items))
		for _, wo := range items {
			closedAt := ""
			if wo.ClosedAt != nil {
				closedAt = wo.ClosedAt.Format(time.RFC3339)
			}
			rows = append(rows, []string{
				wo.ID, wo.ClientID, wo.AssetID, wo.Title, string(wo.Status),
				wo.OpenedAt.Format(time.RFC3339), closedAt,
			})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedEntity, entity)
}
