package middleware

import (
	"strings"

	"hicode-bloodlink/internal/config"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/pkg/jwt"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("fullName", claims.FullName)
		c.Locals("roleID", domain.ParseRole(claims.RoleID))

		return c.Next()
	}
}

// CurrentUserID reads the authenticated user ID set by AuthMiddleware
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// CurrentRole reads the authenticated user's role set by AuthMiddleware
func CurrentRole(c *fiber.Ctx) domain.RoleID {
	role, ok := c.Locals("roleID").(domain.RoleID)
	if !ok {
		return domain.RoleUnknown
	}
	return role
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.RoleID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("roleID").(domain.RoleID)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// RequirePermission authorizes by permission token rather than raw role,
// so route rules read as capabilities
func RequirePermission(perms ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("roleID").(domain.RoleID)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !domain.HasAllPermissions(role, perms...) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// StaffOrAdmin middleware allows staff or admin roles
func StaffOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleStaff, domain.RoleAdmin)
}
