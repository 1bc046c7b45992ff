package services

import (
	"context"
	"errors"
	"log"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("blog post not found")

// BlogService manages educational blog posts shown on the public site.
type BlogService struct {
	blogRepo repositories.BlogRepository
}

// NewBlogService creates a new blog service
func NewBlogService(blogRepo repositories.BlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

// CreatePostInput represents blog post creation input
type CreatePostInput struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url"`
	Status   string `json:"status"`
}

// UpdatePostInput represents blog post update input
type UpdatePostInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
	Status   *string `json:"status"`
}

// Create adds a post, defaulting to draft
func (s *BlogService) Create(ctx context.Context, authorID uint, input *CreatePostInput) (*models.BlogPost, error) {
	status := input.Status
	if status == "" {
		status = models.BlogStatusDraft
	}

	post := &models.BlogPost{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		Status:   status,
		AuthorID: authorID,
	}
	if status == models.BlogStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.blogRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	log.Printf("✅ Blog post #%d created", post.ID)
	return post, nil
}

// Get fetches one post
func (s *BlogService) Get(ctx context.Context, id uint) (*models.BlogPost, error) {
	post, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetPublished fetches one post, hiding drafts and archived posts
func (s *BlogService) GetPublished(ctx context.Context, id uint) (*models.BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != models.BlogStatusPublished {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListPublished lists published posts for the public site
func (s *BlogService) ListPublished(ctx context.Context, offset, limit int) ([]*models.BlogPost, int64, error) {
	return s.blogRepo.ListPublished(ctx, offset, limit)
}

// ListAll lists posts in any status for staff
func (s *BlogService) ListAll(ctx context.Context, status string, offset, limit int) ([]*models.BlogPost, int64, error) {
	return s.blogRepo.ListAll(ctx, status, offset, limit)
}

// Update edits a post
func (s *BlogService) Update(ctx context.Context, id uint, input *UpdatePostInput) (*models.BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.ImageURL != nil {
		post.ImageURL = *input.ImageURL
	}
	if input.Status != nil {
		switch *input.Status {
		case models.BlogStatusDraft, models.BlogStatusPublished, models.BlogStatusArchived:
			post.Status = *input.Status
			if post.Status == models.BlogStatusPublished && post.PublishedAt == nil {
				now := time.Now()
				post.PublishedAt = &now
			}
		default:
			return nil, errors.New("invalid post status")
		}
	}

	if err := s.blogRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.blogRepo.Delete(ctx, id)
}
