package repositories

import (
	"context"

	"hicode-bloodlink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// blogRepository implements BlogRepository interface
type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create creates a new blog post
func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID gets a blog post with its author
func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublished lists published posts, newest first
func (r *blogRepository) ListPublished(ctx context.Context, offset, limit int) ([]*models.BlogPost, int64, error) {
	var posts []*models.BlogPost
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("status = ?", models.BlogStatusPublished)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Author").
		Order("published_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListAll lists posts in any status, for the back office
func (r *blogRepository) ListAll(ctx context.Context, status string, offset, limit int) ([]*models.BlogPost, int64, error) {
	var posts []*models.BlogPost
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Author").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Update updates a blog post
func (r *blogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete soft deletes a blog post
func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BlogPost{}, id).Error
}
