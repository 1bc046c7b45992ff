package handlers

import (
	"errors"
	"strconv"

	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/pagination"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InventoryHandler handles blood inventory endpoints
type InventoryHandler struct {
	inventoryService *services.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// DispenseRequest carries the disposition for a dispensed unit
type DispenseRequest struct {
	Disposition string `json:"disposition"`
}

// List lists stored blood units
// @Summary List blood units
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param blood_type_id query int false "Filter by blood type"
// @Success 200 {object} response.Response
// @Router /inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	var bloodTypeID *uint
	if raw := c.Query("blood_type_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid blood_type_id")
		}
		id := uint(parsed)
		bloodTypeID = &id
	}

	units, total, err := h.inventoryService.List(c.Context(), status, bloodTypeID, params.Offset, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list blood units")
	}

	return response.Success(c, "Blood units retrieved successfully", pagination.NewPage(units, params, total))
}

// Summary aggregates available stock per blood type
// @Summary Inventory summary
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.inventoryService.Summary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get inventory summary")
	}

	return response.Success(c, "Inventory summary retrieved successfully", summary)
}

// Get fetches one blood unit
// @Summary Get blood unit
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Unit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /inventory/{id} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid unit ID")
	}

	unit, err := h.inventoryService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			return response.NotFound(c, "Blood unit not found")
		}
		return response.InternalServerError(c, "Failed to get blood unit")
	}

	return response.Success(c, "Blood unit retrieved successfully", unit)
}

// Dispense marks a unit as used or discarded
// @Summary Dispense blood unit
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Unit ID"
// @Param body body DispenseRequest true "Disposition (USED or DISCARDED)"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /inventory/{id}/dispense [post]
func (h *InventoryHandler) Dispense(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid unit ID")
	}

	var req DispenseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	unit, err := h.inventoryService.Dispense(c.Context(), uint(id), req.Disposition)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnitNotFound):
			return response.NotFound(c, "Blood unit not found")
		case errors.Is(err, services.ErrUnknownUnitOut):
			return response.BadRequest(c, "Disposition must be USED or DISCARDED")
		case errors.Is(err, services.ErrUnitNotUsable):
			return response.Conflict(c, "Blood unit is not available")
		default:
			return response.InternalServerError(c, "Failed to dispense blood unit")
		}
	}

	return response.Success(c, "Blood unit dispensed", unit)
}
