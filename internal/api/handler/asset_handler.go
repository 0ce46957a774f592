package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eagl/fieldops-api/internal/core/ports"
)

// AssetHandler handles HTTP requests for assets. List and Create are nested
// under the owning client; Get, Update, and Delete address assets directly.
type AssetHandler struct {
	service ports.AssetService
}

func NewAssetHandler(service ports.AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

type createAssetRequest struct {
	Name      string `json:"name" validate:"required"`
	AssetType string `json:"asset_type,omitempty"`
	Location  string `json:"location,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=operating degraded stopped maintenance"`
}

type updateAssetRequest struct {
	Name      *string `json:"name,omitempty"`
	AssetType *string `json:"asset_type,omitempty"`
	Location  *string `json:"location,omitempty"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=operating degraded stopped maintenance"`
}

// ListByClient returns the client's assets.
//
// @Summary      List assets of a client
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id                path   string  true   "Client id"
// @Param        include_inactive  query  bool    false  "Include deactivated assets"
// @Success      200  {array}   domain.Asset
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/clients/{id}/assets [get]
func (h *AssetHandler) ListByClient(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"
	assets, err := h.service.ListByClient(c.Request().Context(), c.Param("id"), includeInactive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assets)
}

// Create registers a new asset under a client.
//
// @Summary      Create asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Client id"
// @Param        body  body      createAssetRequest  true  "Asset details"
// @Success      201   {object}  domain.Asset
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/clients/{id}/assets [post]
func (h *AssetHandler) Create(c echo.Context) error {
	var req createAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	asset, err := h.service.Create(c.Request().Context(), ports.CreateAssetInput{
		ClientID:  c.Param("id"),
		Name:      req.Name,
		AssetType: req.AssetType,
		Location:  req.Location,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, asset)
}

// Get returns one asset by id.
//
// @Summary      Get asset
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Asset id"
// @Success      200  {object}  domain.Asset
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/assets/{id} [get]
func (h *AssetHandler) Get(c echo.Context) error {
	asset, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, asset)
}

// Update modifies an asset.
//
// @Summary      Update asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Asset id"
// @Param        body  body      updateAssetRequest  true  "Fields to change"
// @Success      200   {object}  domain.Asset
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/assets/{id} [patch]
func (h *AssetHandler) Update(c echo.Context) error {
	var req updateAssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	asset, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateAssetInput{
		Name:      req.Name,
		AssetType: req.AssetType,
		Location:  req.Location,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, asset)
}

// Delete deactivates an asset (soft delete).
//
// @Summary      Deactivate asset
// @Tags         assets
// @Security     BearerAuth
// @Param        id  path  string  true  "Asset id"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/assets/{id} [delete]
func (h *AssetHandler) Delete(c echo.Context) error {
	if err := h.service.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
