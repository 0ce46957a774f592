package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

func newWorkOrderSvc(orders *stubWorkOrderRepo, clients *stubClientRepo, assets *stubAssetRepo) *WorkOrderService {
	return NewWorkOrderService(orders, clients, assets, zerolog.Nop())
}

func TestWorkOrderService_Create(t *testing.T) {
	clients := newStubClientRepo("c1")
	assets := newStubAssetRepo()
	assets.assets["a1"] = &domain.Asset{ID: "a1", ClientID: "c1", Name: "Pump", IsActive: true}
	orders := newStubWorkOrderRepo()
	svc := newWorkOrderSvc(orders, clients, assets)

	wo, err := svc.Create(context.Background(), ports.CreateWorkOrderInput{
		ClientID:  "c1",
		AssetID:   "a1",
		Title:     "Inspect pump",
		CreatedBy: "u1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if wo.Status != domain.WorkOrderOpen {
		t.Errorf("status = %s, want open", wo.Status)
	}
	if wo.ID == "" || wo.OpenedAt.IsZero() {
		t.Errorf("id/opened_at not set: %+v", wo)
	}
	if _, ok := orders.orders[wo.ID]; !ok {
		t.Errorf("work order not persisted")
	}
}

func TestWorkOrderService_Create_UnknownClient(t *testing.T) {
	svc := newWorkOrderSvc(newStubWorkOrderRepo(), newStubClientRepo(), newStubAssetRepo())

	_, err := svc.Create(context.Background(), ports.CreateWorkOrderInput{ClientID: "missing", Title: "x"})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestWorkOrderService_Create_AssetOfOtherClient(t *testing.T) {
	clients := newStubClientRepo("c1", "c2")
	assets := newStubAssetRepo()
	assets.assets["a1"] = &domain.Asset{ID: "a1", ClientID: "c2", Name: "Pump", IsActive: true}
	svc := newWorkOrderSvc(newStubWorkOrderRepo(), clients, assets)

	_, err := svc.Create(context.Background(), ports.CreateWorkOrderInput{
		ClientID: "c1",
		AssetID:  "a1",
		Title:    "Inspect",
	})
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestWorkOrderService_Update_ValidTransition(t *testing.T) {
	clients := newStubClientRepo("c1")
	orders := newStubWorkOrderRepo()
	orders.orders["w1"] = &domain.WorkOrder{ID: "w1", ClientID: "c1", Title: "x", Status: domain.WorkOrderOpen}
	svc := newWorkOrderSvc(orders, clients, newStubAssetRepo())

	status := string(domain.WorkOrderInProgress)
	wo, err := svc.Update(context.Background(), "w1", ports.UpdateWorkOrderInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if wo.Status != domain.WorkOrderInProgress {
		t.Errorf("status = %s, want in_progress", wo.Status)
	}
	if wo.ClosedAt != nil {
		t.Errorf("closed_at must stay nil for in_progress")
	}
}

func TestWorkOrderService_Update_InvalidTransition(t *testing.T) {
	orders := newStubWorkOrderRepo()
	orders.orders["w1"] = &domain.WorkOrder{ID: "w1", ClientID: "c1", Title: "x", Status: domain.WorkOrderClosed}
	svc := newWorkOrderSvc(orders, newStubClientRepo("c1"), newStubAssetRepo())

	status := string(domain.WorkOrderInProgress)
	_, err := svc.Update(context.Background(), "w1", ports.UpdateWorkOrderInput{Status: &status})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestWorkOrderService_Update_CancelStampsClosedAt(t *testing.T) {
	orders := newStubWorkOrderRepo()
	orders.orders["w1"] = &domain.WorkOrder{ID: "w1", ClientID: "c1", Title: "x", Status: domain.WorkOrderInProgress}
	svc := newWorkOrderSvc(orders, newStubClientRepo("c1"), newStubAssetRepo())

	status := string(domain.WorkOrderCancelled)
	wo, err := svc.Update(context.Background(), "w1", ports.UpdateWorkOrderInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if wo.Status != domain.WorkOrderCancelled || wo.ClosedAt == nil {
		t.Errorf("expected cancelled with closed_at, got %+v", wo)
	}
}

func TestWorkOrderService_Close(t *testing.T) {
	orders := newStubWorkOrderRepo()
	orders.orders["w1"] = &domain.WorkOrder{ID: "w1", ClientID: "c1", Title: "x", Status: domain.WorkOrderInProgress}
	svc := newWorkOrderSvc(orders, newStubClientRepo("c1"), newStubAssetRepo())

	wo, err := svc.Close(context.Background(), "w1")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if wo.Status != domain.WorkOrderClosed || wo.ClosedAt == nil {
		t.Errorf("expected closed with closed_at set, got %+v", wo)
	}

	// A closed order cannot be closed again.
	if _, err := svc.Close(context.Background(), "w1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestWorkOrderService_List_LimitCapped(t *testing.T) {
	orders := newStubWorkOrderRepo()
	svc := newWorkOrderSvc(orders, newStubClientRepo(), newStubAssetRepo())

	result, err := svc.List(context.Background(), ports.ListWorkOrdersInput{Page: 0, Limit: 5000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Limit != maxPageLimit {
		t.Errorf("limit = %d, want %d", result.Limit, maxPageLimit)
	}
	if result.Page != 1 {
		t.Errorf("page = %d, want 1", result.Page)
	}
}
