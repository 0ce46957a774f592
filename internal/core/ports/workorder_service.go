package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// CreateWorkOrderInput carries all data needed to open a work order.
type CreateWorkOrderInput struct {
	ClientID    string
	AssetID     string // optional
	Title       string
	Description string
	CreatedBy   string
}

// UpdateWorkOrderInput carries the mutable work order fields. Nil pointers
// leave the current value untouched. Status changes go through the state
// machine; an invalid transition is rejected.
type UpdateWorkOrderInput struct {
	Title       *string
	Description *string
	Status      *string
}

// ListWorkOrdersInput carries all parameters for the list endpoint.
type ListWorkOrdersInput struct {
	Role     string
	ClientID string // caller's own scope for client-bound users
	AssetID  string
	Status   string
	Page     int
	Limit    int
}

// ListWorkOrdersResult is returned by List.
type ListWorkOrdersResult struct {
	Items      []*domain.WorkOrder
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// WorkOrderService defines use-case operations for work orders.
type WorkOrderService interface {
	Create(ctx context.Context, input CreateWorkOrderInput) (*domain.WorkOrder, error)
	Get(ctx context.Context, id string) (*domain.WorkOrder, error)
	List(ctx context.Context, input ListWorkOrdersInput) (*ListWorkOrdersResult, error)
	Update(ctx context.Context, id string, input UpdateWorkOrderInput) (*domain.WorkOrder, error)
	// Close finalizes the work order, stamping closed_at.
	Close(ctx context.Context, id string) (*domain.WorkOrder, error)
}
