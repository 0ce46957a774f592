package ports

import (
	"context"

	"github.com/eagl/fieldops-api/internal/core/domain"
)

// ListWorkOrdersFilter carries all query parameters for listing work orders.
// ClientID is enforced by the service layer for client-scoped users.
type ListWorkOrdersFilter struct {
	ClientID string // empty = no filter
	AssetID  string // optional
	Status   string // optional
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by service)
}

// WorkOrderRepository defines persistence operations for work orders.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *domain.WorkOrder) error
	FindByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	// List returns a page of work orders matching filter and the total count.
	List(ctx context.Context, filter ListWorkOrdersFilter) ([]*domain.WorkOrder, int64, error)
	Update(ctx context.Context, wo *domain.WorkOrder) error
	Count(ctx context.Context) (int64, error)
}
