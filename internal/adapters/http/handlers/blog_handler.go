package handlers

import (
	"errors"

	"hicode-bloodlink/internal/adapters/http/middleware"
	"hicode-bloodlink/internal/core/services"
	"hicode-bloodlink/internal/pkg/pagination"
	"hicode-bloodlink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BlogHandler handles blog post endpoints
type BlogHandler struct {
	blogService *services.BlogService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// ListPublished lists published posts for the public site
// @Summary List published posts
// @Tags Blog
// @Produce json
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /blog [get]
func (h *BlogHandler) ListPublished(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	posts, total, err := h.blogService.ListPublished(c.Context(), params.Offset, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list posts")
	}

	return response.Success(c, "Posts retrieved successfully", pagination.NewPage(posts, params, total))
}

// GetPublished fetches one published post
// @Summary Get published post
// @Tags Blog
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blog/{id} [get]
func (h *BlogHandler) GetPublished(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid post ID")
	}

	post, err := h.blogService.GetPublished(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to get post")
	}

	return response.Success(c, "Post retrieved successfully", post)
}

// ListAll lists posts in any status for staff
// @Summary List all posts
// @Tags Blog
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /blog/manage [get]
func (h *BlogHandler) ListAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	posts, total, err := h.blogService.ListAll(c.Context(), status, params.Offset, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list posts")
	}

	return response.Success(c, "Posts retrieved successfully", pagination.NewPage(posts, params, total))
}

// Create adds a post
// @Summary Create post
// @Tags Blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePostInput true "Post data"
// @Success 201 {object} response.Response
// @Router /blog [post]
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Title == "" || input.Content == "" {
		return response.BadRequest(c, "Title and content are required")
	}

	post, err := h.blogService.Create(c.Context(), userID, &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create post")
	}

	return response.Created(c, "Post created successfully", post)
}

// Update edits a post
// @Summary Update post
// @Tags Blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param body body services.UpdatePostInput true "Changes"
// @Success 200 {object} response.Response
// @Router /blog/{id} [put]
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid post ID")
	}

	var input services.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	post, err := h.blogService.Update(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to update post")
	}

	return response.Success(c, "Post updated successfully", post)
}

// Delete removes a post
// @Summary Delete post
// @Tags Blog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} response.Response
// @Router /blog/{id} [delete]
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid post ID")
	}

	if err := h.blogService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return response.NotFound(c, "Post not found")
		}
		return response.InternalServerError(c, "Failed to delete post")
	}

	return response.Success(c, "Post deleted successfully", nil)
}
