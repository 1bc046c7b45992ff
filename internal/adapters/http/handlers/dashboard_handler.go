package handlers

import (
	"hicode-bloodlink/internal/adapters/http/middleware"
	"hicode-bloodlink/internal/config"
	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	cfg              *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		cfg:              cfg,
	}
}

// AdminDashboard returns the staff/admin overview
// @Summary Admin dashboard
// @Description Aggregate statistics for staff and administrators
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) AdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// MemberDashboard returns the donor's personal overview
// @Summary Member dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/me [get]
func (h *DashboardHandler) MemberDashboard(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetMemberDashboard(c.Context(), userID, h.cfg.Donation.IntervalDays)
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}
