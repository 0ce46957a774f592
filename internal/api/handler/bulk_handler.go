package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

// JobEnqueuer hands confirmed jobs to the background worker pool.
type JobEnqueuer interface {
	EnqueueImport(jobID, entity string)
	EnqueueExport(jobID, entity string)
}

// BulkHandler handles HTTP requests for the bulk import/export lifecycle.
type BulkHandler struct {
	service    ports.BulkService
	dispatcher JobEnqueuer
}

func NewBulkHandler(service ports.BulkService, dispatcher JobEnqueuer) *BulkHandler {
	return &BulkHandler{service: service, dispatcher: dispatcher}
}

type exportResponse struct {
	URL string            `json:"url,omitempty"`
	Job *domain.ExportJob `json:"job"`
}

// Template serves the empty spreadsheet template for an entity.
//
// @Summary      Download import template
// @Tags         bulk
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        entity  path  string  true  "Entity name (clients, assets)"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/bulk/{entity}/template [get]
func (h *BulkHandler) Template(c echo.Context) error {
	content, fileName, err := h.service.Template(c.Param("entity"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, content)
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Upload accepts a spreadsheet for import.
//
// @Summary      Upload import file
// @Tags         bulk
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        entity  path      string  true   "Entity name (clients, assets)"
// @Param        file    formData  file    true   "CSV or XLSX file"
// @Param        mode    formData  string  false  "Import mode: upsert, create_only, update_only"
// @Success      201  {object}  domain.ImportJob
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Router       /api/v1/bulk/{entity}/import [post]
func (h *BulkHandler) Upload(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	job, err := h.service.Upload(c.Request().Context(), ports.UploadImportInput{
		Entity:      c.Param("entity"),
		Mode:        c.FormValue("mode"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        src,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

// Validate parses the uploaded file and reports per-row problems.
//
// @Summary      Validate import file
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Import job id"
// @Success      200  {object}  ports.ImportPreview
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/bulk/imports/{id}/validate [post]
func (h *BulkHandler) Validate(c echo.Context) error {
	preview, err := h.service.Validate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preview)
}

// Confirm queues a validated job and hands it to the worker pool.
//
// @Summary      Confirm import
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Import job id"
// @Success      202  {object}  domain.ImportJob
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/bulk/imports/{id}/confirm [post]
func (h *BulkHandler) Confirm(c echo.Context) error {
	job, err := h.service.Confirm(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	h.dispatcher.EnqueueImport(job.ID, job.Entity)
	return c.JSON(http.StatusAccepted, job)
}

// ListImports returns recent import jobs.
//
// @Summary      List import jobs
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        entity  query  string  false  "Filter by entity"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {array}  domain.ImportJob
// @Router       /api/v1/bulk/imports [get]
func (h *BulkHandler) ListImports(c echo.Context) error {
	jobs, err := h.service.ListImports(c.Request().Context(), c.QueryParam("entity"), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetImport returns one import job.
//
// @Summary      Get import job
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Import job id"
// @Success      200  {object}  domain.ImportJob
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/bulk/imports/{id} [get]
func (h *BulkHandler) GetImport(c echo.Context) error {
	job, err := h.service.GetImport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// ListImportErrors returns the recorded row errors for a job.
//
// @Summary      List import row errors
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Import job id"
// @Success      200  {array}   domain.RowError
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/bulk/imports/{id}/errors [get]
func (h *BulkHandler) ListImportErrors(c echo.Context) error {
	errs, err := h.service.ListErrors(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if errs == nil {
		errs = []domain.RowError{}
	}
	return c.JSON(http.StatusOK, errs)
}

// Export writes an entity's rows to a workbook, inline for small data sets
// and via a queued job for large ones.
//
// @Summary      Export entity
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        entity  path  string  true  "Entity name"
// @Success      200  {object}  exportResponse  "Inline export with download URL"
// @Success      202  {object}  exportResponse  "Queued export job"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/bulk/{entity}/export [post]
func (h *BulkHandler) Export(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.Export(c.Request().Context(), c.Param("entity"), claims.UserID)
	if err != nil {
		return err
	}
	if result.URL != "" {
		return c.JSON(http.StatusOK, exportResponse{URL: result.URL, Job: result.Job})
	}
	h.dispatcher.EnqueueExport(result.Job.ID, result.Job.Entity)
	return c.JSON(http.StatusAccepted, exportResponse{Job: result.Job})
}

// ListExports returns recent export jobs.
//
// @Summary      List export jobs
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ExportJob
// @Router       /api/v1/bulk/exports [get]
func (h *BulkHandler) ListExports(c echo.Context) error {
	jobs, err := h.service.ListExports(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetExport returns one export job.
//
// @Summary      Get export job
// @Tags         bulk
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Export job id"
// @Success      200  {object}  domain.ExportJob
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/bulk/exports/{id} [get]
func (h *BulkHandler) GetExport(c echo.Context) error {
	job, err := h.service.GetExport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}
