package handlers

import (
	"errors"

	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BloodTypeHandler handles blood type master data endpoints
type BloodTypeHandler struct {
	bloodTypeService *services.BloodTypeService
}

// NewBloodTypeHandler creates a new blood type handler
func NewBloodTypeHandler(bloodTypeService *services.BloodTypeService) *BloodTypeHandler {
	return &BloodTypeHandler{bloodTypeService: bloodTypeService}
}

// List returns all blood types
// @Summary List blood types
// @Tags BloodTypes
// @Produce json
// @Success 200 {object} response.Response
// @Router /blood-types [get]
func (h *BloodTypeHandler) List(c *fiber.Ctx) error {
	types, err := h.bloodTypeService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list blood types")
	}

	return response.Success(c, "Blood types retrieved successfully", types)
}

// Get returns one blood type
// @Summary Get blood type
// @Tags BloodTypes
// @Produce json
// @Param id path int true "Blood type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-types/{id} [get]
func (h *BloodTypeHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid blood type ID")
	}

	bloodType, err := h.bloodTypeService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUnknownBloodType) {
			return response.NotFound(c, "Blood type not found")
		}
		return response.InternalServerError(c, "Failed to get blood type")
	}

	return response.Success(c, "Blood type retrieved successfully", bloodType)
}

// CompatibleDonors lists donor types able to give to a recipient type
// @Summary Compatible donors
// @Tags BloodTypes
// @Produce json
// @Param id path int true "Recipient blood type ID"
// @Param component query string false "Component (WHOLE, RED_CELLS, PLASMA, PLATELETS)" default(WHOLE)
// @Success 200 {object} response.Response
// @Router /blood-types/{id}/compatible-donors [get]
func (h *BloodTypeHandler) CompatibleDonors(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid blood type ID")
	}

	types, err := h.bloodTypeService.CompatibleDonors(c.Context(), uint(id), c.Query("component"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownBloodType) {
			return response.NotFound(c, "Blood type not found")
		}
		return response.InternalServerError(c, "Failed to resolve compatible donors")
	}

	return response.Success(c, "Compatible donors retrieved successfully", types)
}

// CompatibleRecipients lists recipient types a donor type can give to
// @Summary Compatible recipients
// @Tags BloodTypes
// @Produce json
// @Param id path int true "Donor blood type ID"
// @Param component query string false "Component (WHOLE, RED_CELLS, PLASMA, PLATELETS)" default(WHOLE)
// @Success 200 {object} response.Response
// @Router /blood-types/{id}/compatible-recipients [get]
func (h *BloodTypeHandler) CompatibleRecipients(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid blood type ID")
	}

	types, err := h.bloodTypeService.CompatibleRecipients(c.Context(), uint(id), c.Query("component"))
	if err != nil {
		if errors.Is(err, services.ErrUnknownBloodType) {
			return response.NotFound(c, "Blood type not found")
		}
		return response.InternalServerError(c, "Failed to resolve compatible recipients")
	}

	return response.Success(c, "Compatible recipients retrieved successfully", types)
}

// UpdateDescriptionRequest represents the blood type edit payload
type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

// Update edits a blood type description (staff)
// @Summary Update blood type
// @Tags BloodTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blood type ID"
// @Param body body UpdateDescriptionRequest true "New description"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-types/{id} [put]
func (h *BloodTypeHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid blood type ID")
	}

	var req UpdateDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bloodType, err := h.bloodTypeService.UpdateDescription(c.Context(), uint(id), req.Description)
	if err != nil {
		if errors.Is(err, services.ErrUnknownBloodType) {
			return response.NotFound(c, "Blood type not found")
		}
		return response.InternalServerError(c, "Failed to update blood type")
	}

	return response.Success(c, "Blood type updated successfully", bloodType)
}

// SetCompatibility inserts or overwrites one compatibility rule (staff)
// @Summary Set compatibility rule
// @Tags BloodTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SetCompatibilityInput true "Compatibility rule"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /blood-types/compatibility [put]
func (h *BloodTypeHandler) SetCompatibility(c *fiber.Ctx) error {
	var input services.SetCompatibilityInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.DonorTypeID == 0 || input.RecipientTypeID == 0 {
		return response.BadRequest(c, "Donor and recipient type IDs are required")
	}

	compat, err := h.bloodTypeService.SetCompatibility(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownBloodType):
			return response.NotFound(c, "Blood type not found")
		case errors.Is(err, services.ErrUnknownComponent):
			return response.BadRequest(c, "Unknown blood component type")
		default:
			return response.InternalServerError(c, "Failed to save compatibility rule")
		}
	}

	return response.Success(c, "Compatibility rule saved successfully", compat)
}

// Matrix returns the full compatibility matrix
// @Summary Compatibility matrix
// @Tags BloodTypes
// @Produce json
// @Success 200 {object} response.Response
// @Router /blood-types/compatibility [get]
func (h *BloodTypeHandler) Matrix(c *fiber.Ctx) error {
	matrix, err := h.bloodTypeService.Matrix(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get compatibility matrix")
	}

	return response.Success(c, "Compatibility matrix retrieved successfully", matrix)
}
