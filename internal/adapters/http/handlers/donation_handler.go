package handlers

import (
	"errors"

	"hicode-bloodlink/internal/adapters/http/middleware"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/pagination"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DonationHandler handles donation process endpoints
type DonationHandler struct {
	donationService *services.DonationService
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// RejectRequest carries an optional rejection reason
type RejectRequest struct {
	Reason string `json:"reason"`
}

// CreateProcess opens a donation process for the current donor
// @Summary Request to donate
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProcessInput true "Donation request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations [post]
func (h *DonationHandler) CreateProcess(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateProcessInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	process, err := h.donationService.CreateProcess(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDonorNotReady):
			return response.Conflict(c, "You are not eligible to donate yet")
		case errors.Is(err, services.ErrActiveProcess):
			return response.Conflict(c, "You already have a donation in progress")
		default:
			return response.InternalServerError(c, "Failed to create donation request")
		}
	}

	return response.Created(c, "Donation request submitted", process.ToResponse())
}

// ListMine lists the current donor's donation history
// @Summary My donation history
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /donations/me [get]
func (h *DonationHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	processes, err := h.donationService.ListMyProcesses(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list donations")
	}

	content := make([]interface{}, 0, len(processes))
	for _, p := range processes {
		content = append(content, p.ToResponse())
	}

	return response.Success(c, "Donations retrieved successfully", content)
}

// List lists donation processes for staff
// @Summary List donation processes
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /donations [get]
func (h *DonationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	processes, total, err := h.donationService.ListProcesses(c.Context(), status, params.Offset, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list donations")
	}

	content := make([]interface{}, 0, len(processes))
	for _, p := range processes {
		content = append(content, p.ToResponse())
	}

	return response.Success(c, "Donations retrieved successfully", pagination.NewPage(content, params, total))
}

// Get fetches one donation process
// @Summary Get donation process
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donations/{id} [get]
func (h *DonationHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	process, err := h.donationService.GetProcess(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProcessNotFound) {
			return response.NotFound(c, "Donation process not found")
		}
		return response.InternalServerError(c, "Failed to get donation process")
	}

	// Donors may only see their own processes
	role := middleware.CurrentRole(c)
	if !domain.IsStaffOrAdmin(role) && process.DonorID != middleware.CurrentUserID(c) {
		return response.Forbidden(c, "You can only view your own donations")
	}

	return response.Success(c, "Donation process retrieved successfully", process.ToResponse())
}

// Approve approves a pending donation request
// @Summary Approve donation request
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations/{id}/approve [post]
func (h *DonationHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	process, err := h.donationService.Approve(c.Context(), uint(id))
	if err != nil {
		return h.transitionError(c, err)
	}

	return response.Success(c, "Donation request approved", process.ToResponse())
}

// Reject rejects a pending donation request
// @Summary Reject donation request
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Param body body RejectRequest false "Rejection reason"
// @Success 200 {object} response.Response
// @Router /donations/{id}/reject [post]
func (h *DonationHandler) Reject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	var req RejectRequest
	_ = c.BodyParser(&req)

	process, err := h.donationService.Reject(c.Context(), uint(id), req.Reason)
	if err != nil {
		return h.transitionError(c, err)
	}

	return response.Success(c, "Donation request rejected", process.ToResponse())
}

// Schedule books the donation appointment
// @Summary Schedule appointment
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Param body body services.ScheduleInput true "Appointment"
// @Success 200 {object} response.Response
// @Router /donations/{id}/schedule [post]
func (h *DonationHandler) Schedule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	var input services.ScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.AppointmentDate.IsZero() {
		return response.BadRequest(c, "Appointment date is required")
	}

	process, err := h.donationService.ScheduleAppointment(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentInPast) {
			return response.BadRequest(c, "Appointment date must be in the future")
		}
		return h.transitionError(c, err)
	}

	return response.Success(c, "Appointment scheduled", process.ToResponse())
}

// HealthCheck records the pre-donation screening
// @Summary Record health check
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Param body body services.HealthCheckInput true "Screening result"
// @Success 200 {object} response.Response
// @Router /donations/{id}/health-check [post]
func (h *DonationHandler) HealthCheck(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	var input services.HealthCheckInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	process, err := h.donationService.RecordHealthCheck(c.Context(), uint(id), &input)
	if err != nil {
		return h.transitionError(c, err)
	}

	return response.Success(c, "Health check recorded", process.ToResponse())
}

// Collect records the blood collection
// @Summary Record blood collection
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Param body body services.CollectInput true "Collection data"
// @Success 200 {object} response.Response
// @Router /donations/{id}/collect [post]
func (h *DonationHandler) Collect(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	var input services.CollectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	process, err := h.donationService.RecordCollection(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, services.ErrMissingVolume) {
			return response.BadRequest(c, "Collected volume is required")
		}
		return h.transitionError(c, err)
	}

	return response.Success(c, "Blood collection recorded", process.ToResponse())
}

// TestResult records the lab result
// @Summary Record test result
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Param body body services.TestResultInput true "Lab result"
// @Success 200 {object} response.Response
// @Router /donations/{id}/test-result [post]
func (h *DonationHandler) TestResult(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	var input services.TestResultInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	process, err := h.donationService.RecordTestResult(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, services.ErrMissingBloodType) {
			return response.UnprocessableEntity(c, "Donor has no blood type on record and none was supplied with the result")
		}
		return h.transitionError(c, err)
	}

	return response.Success(c, "Test result recorded", process.ToResponse())
}

// Cancel lets a donor withdraw their own pending request
// @Summary Cancel own donation request
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Process ID"
// @Success 200 {object} response.Response
// @Router /donations/{id}/cancel [post]
func (h *DonationHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid process ID")
	}

	userID := middleware.CurrentUserID(c)

	process, err := h.donationService.Cancel(c.Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotProcessOwner) {
			return response.Forbidden(c, "You can only cancel your own donations")
		}
		return h.transitionError(c, err)
	}

	return response.Success(c, "Donation request cancelled", process.ToResponse())
}

// transitionError maps state machine failures to HTTP responses
func (h *DonationHandler) transitionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProcessNotFound):
		return response.NotFound(c, "Donation process not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Donation status does not allow this action")
	default:
		return response.InternalServerError(c, "Failed to update donation process")
	}
}
