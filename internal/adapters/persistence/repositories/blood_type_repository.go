package repositories

import (
	"context"

	"hicode-bloodlink/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bloodTypeRepository implements BloodTypeRepository interface
type bloodTypeRepository struct {
	db *gorm.DB
}

// NewBloodTypeRepository creates a new blood type repository
func NewBloodTypeRepository(db *gorm.DB) BloodTypeRepository {
	return &bloodTypeRepository{db: db}
}

// GetByID gets a blood type by ID
func (r *bloodTypeRepository) GetByID(ctx context.Context, id uint) (*models.BloodType, error) {
	var bloodType models.BloodType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bloodType).Error
	if err != nil {
		return nil, err
	}
	return &bloodType, nil
}

// List lists all blood types
func (r *bloodTypeRepository) List(ctx context.Context) ([]*models.BloodType, error) {
	var bloodTypes []*models.BloodType
	err := r.db.WithContext(ctx).Order("blood_group, rh_factor").Find(&bloodTypes).Error
	return bloodTypes, err
}

// Update updates a blood type
func (r *bloodTypeRepository) Update(ctx context.Context, bloodType *models.BloodType) error {
	return r.db.WithContext(ctx).Save(bloodType).Error
}

// UpsertCompatibility inserts or updates one compatibility rule
func (r *bloodTypeRepository) UpsertCompatibility(ctx context.Context, compat *models.BloodCompatibility) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "donor_type_id"}, {Name: "recipient_type_id"}, {Name: "component_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_compatible"}),
	}).Create(compat).Error
}

// ListCompatibilities lists the full compatibility matrix
func (r *bloodTypeRepository) ListCompatibilities(ctx context.Context) ([]*models.BloodCompatibility, error) {
	var rules []*models.BloodCompatibility
	err := r.db.WithContext(ctx).
		Preload("DonorType").Preload("RecipientType").
		Find(&rules).Error
	return rules, err
}

// ListCompatibleDonors lists blood types that can donate to a recipient type
func (r *bloodTypeRepository) ListCompatibleDonors(ctx context.Context, recipientTypeID uint, component string) ([]*models.BloodType, error) {
	var bloodTypes []*models.BloodType
	err := r.db.WithContext(ctx).
		Joins("JOIN blood_compatibilities bc ON bc.donor_type_id = blood_types.id").
		Where("bc.recipient_type_id = ? AND bc.component_type = ? AND bc.is_compatible = ?", recipientTypeID, component, true).
		Find(&bloodTypes).Error
	return bloodTypes, err
}

// ListCompatibleRecipients lists blood types a donor type can give to
func (r *bloodTypeRepository) ListCompatibleRecipients(ctx context.Context, donorTypeID uint, component string) ([]*models.BloodType, error) {
	var bloodTypes []*models.BloodType
	err := r.db.WithContext(ctx).
		Joins("JOIN blood_compatibilities bc ON bc.recipient_type_id = blood_types.id").
		Where("bc.donor_type_id = ? AND bc.component_type = ? AND bc.is_compatible = ?", donorTypeID, component, true).
		Find(&bloodTypes).Error
	return bloodTypes, err
}
