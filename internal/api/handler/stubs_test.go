package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

// Stub services and request helpers shared by the handler tests.

func newTestContext(t *testing.T, method, target, contentType string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setClaims(c echo.Context, userID, role, clientID string) {
	c.Set("user_id", userID)
	c.Set("email", userID+"@example.com")
	c.Set("role", role)
	c.Set("client_id", clientID)
}

type stubAuthService struct {
	token   string
	user    *domain.User
	loginFn func(email, password string) error
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	if s.loginFn != nil {
		if err := s.loginFn(email, password); err != nil {
			return "", nil, err
		}
	}
	return s.token, s.user, nil
}

func (s *stubAuthService) Me(_ context.Context, userID string) (*domain.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, domain.ErrUserNotFound
	}
	return s.user, nil
}

type stubWorkOrderService struct {
	orders    map[string]*domain.WorkOrder
	lastList  ports.ListWorkOrdersInput
	lastInput ports.CreateWorkOrderInput
}

func newStubWorkOrderService() *stubWorkOrderService {
	return &stubWorkOrderService{orders: map[string]*domain.WorkOrder{}}
}

func (s *stubWorkOrderService) Create(_ context.Context, input ports.CreateWorkOrderInput) (*domain.WorkOrder, error) {
	s.lastInput = input
	wo := &domain.WorkOrder{
		ID:        "w-new",
		ClientID:  input.ClientID,
		AssetID:   input.AssetID,
		Title:     input.Title,
		Status:    domain.WorkOrderOpen,
		CreatedBy: input.CreatedBy,
	}
	s.orders[wo.ID] = wo
	return wo, nil
}

func (s *stubWorkOrderService) Get(_ context.Context, id string) (*domain.WorkOrder, error) {
	wo, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	return wo, nil
}

func (s *stubWorkOrderService) List(_ context.Context, input ports.ListWorkOrdersInput) (*ports.ListWorkOrdersResult, error) {
	s.lastList = input
	var items []*domain.WorkOrder
	for _, wo := range s.orders {
		if input.ClientID != "" && wo.ClientID != input.ClientID {
			continue
		}
		items = append(items, wo)
	}
	return &ports.ListWorkOrdersResult{
		Items:      items,
		Total:      int64(len(items)),
		Page:       1,
		Limit:      20,
		TotalPages: 1,
	}, nil
}

func (s *stubWorkOrderService) Update(_ context.Context, id string, input ports.UpdateWorkOrderInput) (*domain.WorkOrder, error) {
	wo, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	if input.Status != nil {
		wo.Status = domain.WorkOrderStatus(*input.Status)
	}
	return wo, nil
}

func (s *stubWorkOrderService) Close(_ context.Context, id string) (*domain.WorkOrder, error) {
	wo, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	wo.Status = domain.WorkOrderClosed
	return wo, nil
}

type stubBulkService struct {
	uploaded  *ports.UploadImportInput
	importJob *domain.ImportJob
	preview   *ports.ImportPreview
	export    *ports.ExportResult
	rowErrs   []domain.RowError
	err       error
}

func (s *stubBulkService) Template(entity string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return []byte("workbook"), entity + "_template_v1.xlsx", nil
}

func (s *stubBulkService) Upload(_ context.Context, input ports.UploadImportInput) (*domain.ImportJob, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.uploaded = &input
	return s.importJob, nil
}

func (s *stubBulkService) Validate(_ context.Context, jobID string) (*ports.ImportPreview, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.preview, nil
}

func (s *stubBulkService) Confirm(_ context.Context, jobID string) (*domain.ImportJob, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.importJob, nil
}

func (s *stubBulkService) GetImport(_ context.Context, jobID string) (*domain.ImportJob, error) {
	if s.importJob == nil || s.importJob.ID != jobID {
		return nil, domain.ErrJobNotFound
	}
	return s.importJob, nil
}

func (s *stubBulkService) ListImports(_ context.Context, entity, status string) ([]*domain.ImportJob, error) {
	if s.importJob == nil {
		return nil, nil
	}
	return []*domain.ImportJob{s.importJob}, nil
}

func (s *stubBulkService) ListErrors(_ context.Context, jobID string) ([]domain.RowError, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rowErrs, nil
}

func (s *stubBulkService) Export(_ context.Context, entity, createdBy string) (*ports.ExportResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.export, nil
}

func (s *stubBulkService) GetExport(_ context.Context, jobID string) (*domain.ExportJob, error) {
	if s.export == nil || s.export.Job == nil || s.export.Job.ID != jobID {
		return nil, domain.ErrJobNotFound
	}
	return s.export.Job, nil
}

func (s *stubBulkService) ListExports(_ context.Context) ([]*domain.ExportJob, error) {
	if s.export == nil {
		return nil, nil
	}
	return []*domain.ExportJob{s.export.Job}, nil
}

type stubEnqueuer struct {
	imports []string
	exports []string
}

func (s *stubEnqueuer) EnqueueImport(jobID, entity string) {
	s.imports = append(s.imports, entity+":"+jobID)
}

func (s *stubEnqueuer) EnqueueExport(jobID, entity string) {
	s.exports = append(s.exports, entity+":"+jobID)
}
