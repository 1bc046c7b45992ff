package handlers

import (
	"errors"

	"hicode-bloodlink/internal/adapters/http/middleware"
	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/pagination"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BloodRequestHandler handles emergency blood request endpoints
type BloodRequestHandler struct {
	requestService *services.BloodRequestService
}

// NewBloodRequestHandler creates a new blood request handler
func NewBloodRequestHandler(requestService *services.BloodRequestService) *BloodRequestHandler {
	return &BloodRequestHandler{requestService: requestService}
}

// Create opens a new emergency blood request
// @Summary Create emergency request
// @Tags BloodRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateRequestInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /blood-requests [post]
func (h *BloodRequestHandler) Create(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	fields := map[string]string{}
	if input.PatientName == "" {
		fields["patient_name"] = "Patient name is required"
	}
	if input.Hospital == "" {
		fields["hospital"] = "Hospital is required"
	}
	if input.QuantityInUnits <= 0 {
		fields["quantity_in_units"] = "Quantity must be greater than zero"
	}
	switch input.Urgency {
	case models.UrgencyNormal, models.UrgencyUrgent, models.UrgencyCritical:
	default:
		fields["urgency"] = "Urgency must be NORMAL, URGENT or CRITICAL"
	}
	if len(fields) > 0 {
		return response.ValidationError(c, "Invalid blood request data", fields)
	}

	request, err := h.requestService.Create(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownBloodType):
			return response.BadRequest(c, "Unknown blood type")
		case errors.Is(err, domain.ErrBedOccupied):
			return response.Conflict(c, "An active request already exists for this bed")
		default:
			return response.InternalServerError(c, "Failed to create blood request")
		}
	}

	return response.Created(c, "Blood request created", request.ToResponse())
}

// ListActive lists pending requests ordered by urgency
// @Summary List active requests
// @Tags BloodRequests
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /blood-requests/active [get]
func (h *BloodRequestHandler) ListActive(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	requests, total, err := h.requestService.ListActive(c.Context(), params.Offset, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list blood requests")
	}

	return response.Success(c, "Blood requests retrieved successfully",
		pagination.NewPage(h.toResponses(requests), params, total))
}

// ListCompleted lists fulfilled requests
// @Summary List fulfilled requests
// @Tags BloodRequests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /blood-requests/completed [get]
func (h *BloodRequestHandler) ListCompleted(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	requests, total, err := h.requestService.ListCompleted(c.Context(), params.Offset, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list blood requests")
	}

	return response.Success(c, "Blood requests retrieved successfully",
		pagination.NewPage(h.toResponses(requests), params, total))
}

// List lists all requests for staff
// @Summary List all requests
// @Tags BloodRequests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sort query string false "Sort, e.g. created_at,desc"
// @Success 200 {object} response.Response
// @Router /blood-requests [get]
func (h *BloodRequestHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	order := params.OrderClause(map[string]string{
		"created_at": "created_at",
		"urgency":    "urgency",
		"status":     "status",
	}, "created_at DESC")

	requests, total, err := h.requestService.List(c.Context(), params.Offset, params.Size, order)
	if err != nil {
		return response.InternalServerError(c, "Failed to list blood requests")
	}

	return response.Success(c, "Blood requests retrieved successfully",
		pagination.NewPage(h.toResponses(requests), params, total))
}

// Get fetches one request
// @Summary Get blood request
// @Tags BloodRequests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blood-requests/{id} [get]
func (h *BloodRequestHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid request ID")
	}

	request, err := h.requestService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			return response.NotFound(c, "Blood request not found")
		}
		return response.InternalServerError(c, "Failed to get blood request")
	}

	return response.Success(c, "Blood request retrieved successfully", request.ToResponse())
}

// Pledge registers the current donor against a request
// @Summary Pledge to donate
// @Description Pledge to a pending request; opens an emergency donation process at the hospital
// @Tags BloodRequests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /blood-requests/{id}/pledge [post]
func (h *BloodRequestHandler) Pledge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid request ID")
	}

	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	process, err := h.requestService.Pledge(c.Context(), userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Blood request not found")
		case errors.Is(err, domain.ErrRequestNotActive):
			return response.Conflict(c, "Blood request is no longer active")
		case errors.Is(err, domain.ErrAlreadyPledged):
			return response.Conflict(c, "You have already pledged to this request")
		case errors.Is(err, domain.ErrDonorNotReady):
			return response.Conflict(c, "You are not eligible to donate yet")
		case errors.Is(err, services.ErrPledgeNeedsProfile):
			return response.UnprocessableEntity(c, "Add your blood type to your profile before pledging")
		default:
			return response.InternalServerError(c, "Failed to pledge")
		}
	}

	return response.Created(c, "Pledge registered. Your emergency donation has been scheduled.", process.ToResponse())
}

// UpdateStatus fulfills or cancels a request
// @Summary Update request status
// @Tags BloodRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.UpdateStatusInput true "New status"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /blood-requests/{id}/status [patch]
func (h *BloodRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var input services.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	request, err := h.requestService.UpdateStatus(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Blood request not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Request status does not allow this change")
		default:
			return response.InternalServerError(c, "Failed to update blood request")
		}
	}

	return response.Success(c, "Blood request updated", request.ToResponse())
}

// Update edits a pending request's details (staff)
// @Summary Update emergency request
// @Tags BloodRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.UpdateRequestInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /blood-requests/{id} [put]
func (h *BloodRequestHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var input services.UpdateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	request, err := h.requestService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Blood request not found")
		case errors.Is(err, domain.ErrRequestNotActive):
			return response.Conflict(c, "Only pending requests can be edited")
		case errors.Is(err, services.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than zero")
		case errors.Is(err, services.ErrInvalidUrgency):
			return response.BadRequest(c, "Unknown urgency level")
		default:
			return response.InternalServerError(c, "Failed to update blood request")
		}
	}

	return response.Success(c, "Blood request updated", request.ToResponse())
}

// Delete removes a closed request (staff)
// @Summary Delete emergency request
// @Tags BloodRequests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /blood-requests/{id} [delete]
func (h *BloodRequestHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid request ID")
	}

	if err := h.requestService.Delete(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Blood request not found")
		case errors.Is(err, domain.ErrRequestStillPending):
			return response.Conflict(c, "Cancel or fulfill the request before deleting it")
		default:
			return response.InternalServerError(c, "Failed to delete blood request")
		}
	}

	return response.Success(c, "Blood request deleted", nil)
}

// toResponses converts requests to response DTOs
func (h *BloodRequestHandler) toResponses(requests []*models.BloodRequest) []interface{} {
	content := make([]interface{}, 0, len(requests))
	for _, r := range requests {
		content = append(content, r.ToResponse())
	}
	return content
}
