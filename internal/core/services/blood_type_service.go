package services

import (
	"context"
	"errors"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// ErrUnknownComponent is returned for a component type outside the fixed set
var ErrUnknownComponent = errors.New("unknown blood component type")

// BloodTypeService serves blood type master data and the compatibility
// matrix. The data is seeded at startup and rarely changes.
type BloodTypeService struct {
	bloodTypeRepo repositories.BloodTypeRepository
}

// NewBloodTypeService creates a new blood type service
func NewBloodTypeService(bloodTypeRepo repositories.BloodTypeRepository) *BloodTypeService {
	return &BloodTypeService{bloodTypeRepo: bloodTypeRepo}
}

// List returns all blood types
func (s *BloodTypeService) List(ctx context.Context) ([]*models.BloodType, error) {
	return s.bloodTypeRepo.List(ctx)
}

// Get returns one blood type
func (s *BloodTypeService) Get(ctx context.Context, id uint) (*models.BloodType, error) {
	bloodType, err := s.bloodTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownBloodType
		}
		return nil, err
	}
	return bloodType, nil
}

// CompatibleDonors lists the donor types that can give a component to the
// given recipient type
func (s *BloodTypeService) CompatibleDonors(ctx context.Context, recipientID uint, component string) ([]*models.BloodType, error) {
	if _, err := s.Get(ctx, recipientID); err != nil {
		return nil, err
	}
	if component == "" {
		component = models.ComponentWhole
	}
	return s.bloodTypeRepo.ListCompatibleDonors(ctx, recipientID, component)
}

// CompatibleRecipients lists the recipient types that can receive a
// component from the given donor type
func (s *BloodTypeService) CompatibleRecipients(ctx context.Context, donorID uint, component string) ([]*models.BloodType, error) {
	if _, err := s.Get(ctx, donorID); err != nil {
		return nil, err
	}
	if component == "" {
		component = models.ComponentWhole
	}
	return s.bloodTypeRepo.ListCompatibleRecipients(ctx, donorID, component)
}

// Matrix returns the full compatibility matrix
func (s *BloodTypeService) Matrix(ctx context.Context) ([]*models.BloodCompatibility, error) {
	return s.bloodTypeRepo.ListCompatibilities(ctx)
}

// UpdateDescription edits a blood type's description. The group and Rh
// factor themselves are fixed by the seed and never change.
func (s *BloodTypeService) UpdateDescription(ctx context.Context, id uint, description string) (*models.BloodType, error) {
	bloodType, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	bloodType.Description = description
	if err := s.bloodTypeRepo.Update(ctx, bloodType); err != nil {
		return nil, err
	}
	return bloodType, nil
}

// SetCompatibilityInput represents one compatibility matrix entry
type SetCompatibilityInput struct {
	DonorTypeID     uint   `json:"donor_type_id" validate:"required"`
	RecipientTypeID uint   `json:"recipient_type_id" validate:"required"`
	ComponentType   string `json:"component_type"`
	IsCompatible    bool   `json:"is_compatible"`
}

// SetCompatibility inserts or overwrites one compatibility rule
func (s *BloodTypeService) SetCompatibility(ctx context.Context, input *SetCompatibilityInput) (*models.BloodCompatibility, error) {
	if _, err := s.Get(ctx, input.DonorTypeID); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, input.RecipientTypeID); err != nil {
		return nil, err
	}

	component := input.ComponentType
	if component == "" {
		component = models.ComponentWhole
	}
	switch component {
	case models.ComponentWhole, models.ComponentRedCells, models.ComponentPlasma, models.ComponentPlatelets:
	default:
		return nil, ErrUnknownComponent
	}

	compat := &models.BloodCompatibility{
		DonorTypeID:     input.DonorTypeID,
		RecipientTypeID: input.RecipientTypeID,
		ComponentType:   component,
		IsCompatible:    input.IsCompatible,
	}
	if err := s.bloodTypeRepo.UpsertCompatibility(ctx, compat); err != nil {
		return nil, err
	}
	return compat, nil
}
