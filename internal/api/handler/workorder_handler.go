package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

// WorkOrderHandler handles HTTP requests for work orders.
type WorkOrderHandler struct {
	service ports.WorkOrderService
}

func NewWorkOrderHandler(service ports.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{service: service}
}

type createWorkOrderRequest struct {
	ClientID    string `json:"client_id" validate:"required"`
	AssetID     string `json:"asset_id,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
}

type updateWorkOrderRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=open in_progress closed cancelled"`
}

type listWorkOrdersResponse struct {
	Items      []*domain.WorkOrder `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// List returns a page of work orders.
//
// @Summary      List work orders
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query  string  false  "Filter by client"
// @Param        asset_id   query  string  false  "Filter by asset"
// @Param        status     query  string  false  "Filter by status"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        limit      query  int     false  "Page size (max 100)"
// @Success      200  {object}  listWorkOrdersResponse
// @Router       /api/v1/work-orders [get]
func (h *WorkOrderHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	clientID := c.QueryParam("client_id")
	// Client-bound accounts only ever see their own client's work orders.
	if claims.ClientID != "" {
		clientID = claims.ClientID
	}

	result, err := h.service.List(c.Request().Context(), ports.ListWorkOrdersInput{
		Role:     claims.Role,
		ClientID: clientID,
		AssetID:  c.QueryParam("asset_id"),
		Status:   c.QueryParam("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listWorkOrdersResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Create opens a new work order.
//
// @Summary      Create work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createWorkOrderRequest  true  "Work order details"
// @Success      201   {object}  domain.WorkOrder
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/work-orders [post]
func (h *WorkOrderHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if claims.ClientID != "" && claims.ClientID != req.ClientID {
		return domain.ErrForbidden
	}

	wo, err := h.service.Create(c.Request().Context(), ports.CreateWorkOrderInput{
		ClientID:    req.ClientID,
		AssetID:     req.AssetID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, wo)
}

// Get returns one work order by id.
//
// @Summary      Get work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Work order id"
// @Success      200  {object}  domain.WorkOrder
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/work-orders/{id} [get]
func (h *WorkOrderHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	wo, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if claims.ClientID != "" && claims.ClientID != wo.ClientID {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, wo)
}

// Update modifies a work order. Status changes go through the state machine.
//
// @Summary      Update work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Work order id"
// @Param        body  body      updateWorkOrderRequest  true  "Fields to change"
// @Success      200   {object}  domain.WorkOrder
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/work-orders/{id} [patch]
func (h *WorkOrderHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.checkOwnership(c, claims); err != nil {
		return err
	}

	wo, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateWorkOrderInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wo)
}

// Close finalizes a work order.
//
// @Summary      Close work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Work order id"
// @Success      200  {object}  domain.WorkOrder
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/work-orders/{id}/close [post]
func (h *WorkOrderHandler) Close(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.checkOwnership(c, claims); err != nil {
		return err
	}

	wo, err := h.service.Close(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wo)
}

// checkOwnership blocks client-bound users from touching another client's
// work order. Unscoped (staff) accounts pass through without a lookup.
func (h *WorkOrderHandler) checkOwnership(c echo.Context, claims authClaims) error {
	if claims.ClientID == "" {
		return nil
	}
	wo, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if wo.ClientID != claims.ClientID {
		return domain.ErrForbidden
	}
	return nil
}
