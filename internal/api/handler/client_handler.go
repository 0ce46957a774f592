package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eagl/fieldops-api/internal/core/ports"
)

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

type createClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document,omitempty"`
	Address  string `json:"address,omitempty"`
}

type updateClientRequest struct {
	Name     *string `json:"name,omitempty"`
	Document *string `json:"document,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// List returns all clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive  query  bool  false  "Include deactivated clients"
// @Success      200  {array}  domain.Client
// @Router       /api/v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"
	clients, err := h.service.List(c.Request().Context(), includeInactive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Create registers a new client.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.service.Create(c.Request().Context(), ports.CreateClientInput{
		Name:     req.Name,
		Document: req.Document,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Get returns one client by id.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Update modifies a client record.
//
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client id"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateClientInput{
		Name:     req.Name,
		Document: req.Document,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Delete deactivates a client (soft delete).
//
// @Summary      Deactivate client
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  string  true  "Client id"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
