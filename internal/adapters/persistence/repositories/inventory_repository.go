package repositories

import (
	"context"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// inventoryRepository implements InventoryRepository interface
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// Create stores a new blood unit
func (r *inventoryRepository) Create(ctx context.Context, unit *models.BloodUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

// GetByID gets a blood unit by ID
func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*models.BloodUnit, error) {
	var unit models.BloodUnit
	err := r.db.WithContext(ctx).
		Preload("BloodType").
		Where("id = ?", id).First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// List lists blood units with optional status and blood type filters
func (r *inventoryRepository) List(ctx context.Context, status string, bloodTypeID *uint, offset, limit int) ([]*models.BloodUnit, int64, error) {
	var units []*models.BloodUnit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BloodUnit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if bloodTypeID != nil {
		query = query.Where("blood_type_id = ?", *bloodTypeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("BloodType").
		Order("expires_at ASC").
		Offset(offset).Limit(limit).
		Find(&units).Error; err != nil {
		return nil, 0, err
	}

	return units, total, nil
}

// Update updates a blood unit
func (r *inventoryRepository) Update(ctx context.Context, unit *models.BloodUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// SummaryByType aggregates available units per blood type
func (r *inventoryRepository) SummaryByType(ctx context.Context) ([]*InventorySummaryRow, error) {
	var rows []*InventorySummaryRow
	err := r.db.WithContext(ctx).Model(&models.BloodUnit{}).
		Select("blood_units.blood_type_id, bt.blood_group, bt.rh_factor, COUNT(*) as units, COALESCE(SUM(blood_units.volume_ml), 0) as total_volume").
		Joins("JOIN blood_types bt ON bt.id = blood_units.blood_type_id").
		Where("blood_units.status = ?", models.UnitStatusAvailable).
		Group("blood_units.blood_type_id, bt.blood_group, bt.rh_factor").
		Scan(&rows).Error
	return rows, err
}

// MarkExpired flips available units past their expiry to EXPIRED
func (r *inventoryRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.BloodUnit{}).
		Where("status = ? AND expires_at < ?", models.UnitStatusAvailable, now).
		Update("status", models.UnitStatusExpired)
	return result.RowsAffected, result.Error
}
