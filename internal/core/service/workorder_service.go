package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/api/metrics"
	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

const maxPageLimit = 100

// WorkOrderService implements the work order lifecycle.
type WorkOrderService struct {
	repo    ports.WorkOrderRepository
	clients ports.ClientRepository
	assets  ports.AssetRepository
	logger  zerolog.Logger
}

func NewWorkOrderService(
	repo ports.WorkOrderRepository,
	clients ports.ClientRepository,
	assets ports.AssetRepository,
	logger zerolog.Logger,
) *WorkOrderService {
	return &WorkOrderService{repo: repo, clients: clients, assets: assets, logger: logger}
}

func (s *WorkOrderService) Create(ctx context.Context, input ports.CreateWorkOrderInput) (*domain.WorkOrder, error) {
	if _, err := s.clients.FindByID(ctx, input.ClientID); err != nil {
		return nil, err
	}
	if input.AssetID != "" {
		asset, err := s.assets.FindByID(ctx, input.AssetID)
		if err != nil {
			return nil, err
		}
		// A work order's asset must belong to the same client.
		if asset.ClientID != input.ClientID {
			return nil, domain.ErrAssetNotFound
		}
	}

	now := time.Now().UTC()
	wo := &domain.WorkOrder{
		ID:          uuid.NewString(),
		ClientID:    input.ClientID,
		AssetID:     input.AssetID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.WorkOrderOpen,
		OpenedAt:    now,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, wo); err != nil {
		s.logger.Error().Err(err).Str("client_id", input.ClientID).Msg("failed to create work order")
		return nil, err
	}

	metrics.WorkOrdersOpenedTotal.Inc()
	s.logger.Info().Str("work_order_id", wo.ID).Str("client_id", wo.ClientID).Msg("work order opened")
	return wo, nil
}

func (s *WorkOrderService) Get(ctx context.Context, id string) (*domain.WorkOrder, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *WorkOrderService) List(ctx context.Context, input ports.ListWorkOrdersInput) (*ports.ListWorkOrdersResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := input.Page
	if page <= 0 {
		page = 1
	}

	filter := ports.ListWorkOrdersFilter{
		ClientID: input.ClientID,
		AssetID:  input.AssetID,
		Status:   input.Status,
		Page:     page,
		Limit:    limit,
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListWorkOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *WorkOrderService) Update(ctx context.Context, id string, input ports.UpdateWorkOrderInput) (*domain.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		wo.Title = *input.Title
	}
	if input.Description != nil {
		wo.Description = *input.Description
	}
	if input.Status != nil {
		next := domain.WorkOrderStatus(*input.Status)
		if next != wo.Status {
			if !wo.Status.CanTransitionTo(next) {
				return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, wo.Status, next)
			}
			wo.Status = next
			if next == domain.WorkOrderClosed || next == domain.WorkOrderCancelled {
				now := time.Now().UTC()
				wo.ClosedAt = &now
				metrics.WorkOrdersClosedTotal.WithLabelValues(string(next)).Inc()
			}
		}
	}

	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// Close finalizes the work order, stamping closed_at.
func (s *WorkOrderService) Close(ctx context.Context, id string) (*domain.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !wo.Status.CanTransitionTo(domain.WorkOrderClosed) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, wo.Status, domain.WorkOrderClosed)
	}

	now := time.Now().UTC()
	wo.Status = domain.WorkOrderClosed
	wo.ClosedAt = &now

	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, err
	}

	metrics.WorkOrdersClosedTotal.WithLabelValues(string(domain.WorkOrderClosed)).Inc()
	s.logger.Info().Str("work_order_id", wo.ID).Msg("work order closed")
	return wo, nil
}
