package handlers

import (
	"errors"
	"strconv"

	"hicode-bloodlink/internal/adapters/http/middleware"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/pagination"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// userSortFields whitelists sortable columns for user listing
var userSortFields = map[string]string{
	"created_at": "created_at",
	"full_name":  "full_name",
	"email":      "email",
}

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing users (staff/admin)
// @Summary List users
// @Description Get a paginated list of users with optional search and role filter
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sort query string false "Sort, e.g. created_at,desc"
// @Param search query string false "Search by name or email"
// @Param role_id query int false "Filter by role"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	order := params.OrderClause(userSortFields, "created_at DESC")

	search := c.Query("search")
	var roleID *uint
	if raw := c.Query("role_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid role_id")
		}
		id := uint(parsed)
		roleID = &id
	}

	users, total, err := h.userService.ListUsers(c.Context(), search, roleID, params.Offset, params.Size, order)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	content := make([]interface{}, 0, len(users))
	for _, u := range users {
		content = append(content, u.ToResponse())
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewPage(content, params, total))
}

// CreateUser handles direct account creation (admin)
// @Summary Create user
// @Description Create an account directly without the OTP flow, e.g. staff accounts
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AdminCreateUserInput true "New account"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.AdminCreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return response.BadRequest(c, "Email, password and full name are required")
	}
	if len(input.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	user, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailInUse):
			return response.Conflict(c, "Email is already registered")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrUnknownBloodType):
			return response.BadRequest(c, "Unknown blood type")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", user.ToResponse())
}

// ReadyDonors handles listing donors eligible to donate (staff)
// @Summary List ready donors
// @Description Get donors currently eligible to donate, optionally filtered by blood type
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blood_type_id query int false "Filter by blood type"
// @Success 200 {object} response.Response
// @Router /users/donors/ready [get]
func (h *UserHandler) ReadyDonors(c *fiber.Ctx) error {
	var bloodTypeID *uint
	if raw := c.Query("blood_type_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid blood_type_id")
		}
		id := uint(parsed)
		bloodTypeID = &id
	}

	donors, err := h.userService.ListReadyDonors(c.Context(), bloodTypeID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list donors")
	}

	content := make([]interface{}, 0, len(donors))
	for _, u := range donors {
		content = append(content, u.ToResponse())
	}

	return response.Success(c, "Ready donors retrieved successfully", content)
}

// GetUser handles fetching one user (staff/admin)
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user.ToResponse())
}

// UpdateProfile handles a member updating their own profile
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile changes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownBloodType):
			return response.BadRequest(c, "Unknown blood type")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", user.ToResponse())
}

// ChangePassword handles a member changing their own password
// @Summary Change own password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Password change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return response.BadRequest(c, "Current and new passwords are required")
	}
	if len(input.NewPassword) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &input); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			return response.BadRequest(c, "Current password is incorrect")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// UpdateUser handles staff/admin updates to another account
// @Summary Update user
// @Description Update user details. Role changes require admin.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.AdminUpdateUserInput true "Changes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.AdminUpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID := middleware.CurrentUserID(c)
	actorRole := middleware.CurrentRole(c)

	user, err := h.userService.AdminUpdateUser(c.Context(), actorID, actorRole, uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only administrators can change roles")
		case errors.Is(err, services.ErrSelfRoleChange):
			return response.Forbidden(c, "You cannot change your own role")
		case errors.Is(err, services.ErrLastAdmin):
			return response.Conflict(c, "Cannot demote the last administrator")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrInvalidUserState):
			return response.BadRequest(c, "Invalid user status")
		case errors.Is(err, services.ErrUnknownBloodType):
			return response.BadRequest(c, "Unknown blood type")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// DeleteUser handles account removal (admin only)
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	actorID := middleware.CurrentUserID(c)

	if err := h.userService.DeleteUser(c.Context(), actorID, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrSelfDelete):
			return response.Forbidden(c, "You cannot delete your own account")
		case errors.Is(err, services.ErrLastAdmin):
			return response.Conflict(c, "Cannot delete the last administrator")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}
