package repositories

import (
	"context"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/core/domain"

	"gorm.io/gorm"
)

// bloodRequestRepository implements BloodRequestRepository interface
type bloodRequestRepository struct {
	db *gorm.DB
}

// NewBloodRequestRepository creates a new blood request repository
func NewBloodRequestRepository(db *gorm.DB) BloodRequestRepository {
	return &bloodRequestRepository{db: db}
}

// Create creates a new blood request
func (r *bloodRequestRepository) Create(ctx context.Context, request *models.BloodRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID gets a request with blood type, creator and pledges preloaded
func (r *bloodRequestRepository) GetByID(ctx context.Context, id uint) (*models.BloodRequest, error) {
	var request models.BloodRequest
	err := r.db.WithContext(ctx).
		Preload("BloodType").Preload("CreatedBy").
		Preload("Pledges").Preload("Pledges.Donor").
		Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByStatus lists requests in one status, most urgent first
func (r *bloodRequestRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.BloodRequest, int64, error) {
	var requests []*models.BloodRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BloodRequest{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("BloodType").Preload("CreatedBy").Preload("Pledges").
		Order("FIELD(urgency, 'CRITICAL', 'URGENT', 'NORMAL'), created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// List lists all requests with pagination
func (r *bloodRequestRepository) List(ctx context.Context, offset, limit int, order string) ([]*models.BloodRequest, int64, error) {
	var requests []*models.BloodRequest
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.BloodRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("BloodType").Preload("CreatedBy").Preload("Pledges").
		Order(order).
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Update updates a blood request
func (r *bloodRequestRepository) Update(ctx context.Context, request *models.BloodRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete soft deletes a blood request
func (r *bloodRequestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BloodRequest{}, id).Error
}

// ExistsPendingAtBed checks whether a pending request already occupies a bed
func (r *bloodRequestRepository) ExistsPendingAtBed(ctx context.Context, roomNumber, bedNumber int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BloodRequest{}).
		Where("room_number = ? AND bed_number = ? AND status = ?",
			roomNumber, bedNumber, string(domain.RequestPending)).
		Count(&count).Error
	return count > 0, err
}

// CreatePledge stores a new pledge
func (r *bloodRequestRepository) CreatePledge(ctx context.Context, pledge *models.DonationPledge) error {
	return r.db.WithContext(ctx).Create(pledge).Error
}

// HasPledge checks whether the donor already pledged for the request
func (r *bloodRequestRepository) HasPledge(ctx context.Context, donorID, requestID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DonationPledge{}).
		Where("donor_id = ? AND blood_request_id = ?", donorID, requestID).
		Count(&count).Error
	return count > 0, err
}

// CountPledges counts pledges against a request
func (r *bloodRequestRepository) CountPledges(ctx context.Context, requestID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DonationPledge{}).
		Where("blood_request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

// CountByStatus counts requests grouped by status
func (r *bloodRequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.BloodRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
