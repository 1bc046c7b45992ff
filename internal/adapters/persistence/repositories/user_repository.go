package repositories

import (
	"context"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID with role and blood type preloaded
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").Preload("BloodType").
		Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role").Preload("BloodType").
		Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByResetTokenHash gets a user by a hashed password-reset token
func (r *userRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with search, role filter and pagination
func (r *userRepository) List(ctx context.Context, search string, roleID *uint, offset, limit int, order string) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if roleID != nil {
		query = query.Where("role_id = ?", *roleID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Role").Preload("BloodType").
		Order(order).Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ListReadyDonors lists active donors currently ready to donate
func (r *userRepository) ListReadyDonors(ctx context.Context, bloodTypeID *uint) ([]*models.User, error) {
	var users []*models.User
	query := r.db.WithContext(ctx).
		Preload("BloodType").
		Where("is_ready_to_donate = ? AND status = ?", true, models.UserStatusActive)
	if bloodTypeID != nil {
		query = query.Where("blood_type_id = ?", *bloodTypeID)
	}
	err := query.Find(&users).Error
	return users, err
}

// RestoreReadiness marks donors whose last donation was before the cutoff
// as ready to donate again. Returns the number of rows changed.
func (r *userRepository) RestoreReadiness(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_ready_to_donate = ? AND last_donation_date IS NOT NULL AND last_donation_date < ?", false, before).
		Update("is_ready_to_donate", true)
	return result.RowsAffected, result.Error
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CountByRole counts users holding a role
func (r *userRepository) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}
