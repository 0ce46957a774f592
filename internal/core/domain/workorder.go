package domain

import (
	"errors"
	"time"
)

// WorkOrderStatus represents the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderOpen       WorkOrderStatus = "open"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderClosed     WorkOrderStatus = "closed"
	WorkOrderCancelled  WorkOrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderOpen:       {WorkOrderInProgress, WorkOrderClosed, WorkOrderCancelled},
	WorkOrderInProgress: {WorkOrderClosed, WorkOrderCancelled},
}

var ErrWorkOrderNotFound = errors.New("work order not found")
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s WorkOrderStatus) CanTransitionTo(next WorkOrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// WorkOrder is a unit of field work tied to a Client and optionally to one
// of its Assets.
type WorkOrder struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	AssetID     string          `json:"asset_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      WorkOrderStatus `json:"status"`
	OpenedAt    time.Time       `json:"opened_at"`
	ClosedAt    *time.Time      `json:"closed_at,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
