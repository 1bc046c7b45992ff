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

var (
	ErrUnitNotFound   = errors.New("blood unit not found")
	ErrUnitNotUsable  = errors.New("blood unit is not available")
	ErrUnknownUnitOut = errors.New("unknown disposition for blood unit")
)

// InventoryService tracks stored blood units from intake to use or expiry.
type InventoryService struct {
	inventoryRepo repositories.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo repositories.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// List lists stored units with optional status and blood type filters
func (s *InventoryService) List(ctx context.Context, status string, bloodTypeID *uint, offset, limit int) ([]*models.BloodUnit, int64, error) {
	return s.inventoryRepo.List(ctx, status, bloodTypeID, offset, limit)
}

// Get fetches one unit
func (s *InventoryService) Get(ctx context.Context, id uint) (*models.BloodUnit, error) {
	unit, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return unit, nil
}

// Summary aggregates available stock per blood type
func (s *InventoryService) Summary(ctx context.Context) ([]*repositories.InventorySummaryRow, error) {
	return s.inventoryRepo.SummaryByType(ctx)
}

// Dispense marks an available unit as USED or DISCARDED
func (s *InventoryService) Dispense(ctx context.Context, id uint, disposition string) (*models.BloodUnit, error) {
	if disposition != models.UnitStatusUsed && disposition != models.UnitStatusDiscarded {
		return nil, ErrUnknownUnitOut
	}

	unit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit.Status != models.UnitStatusAvailable {
		return nil, ErrUnitNotUsable
	}

	unit.Status = disposition
	if err := s.inventoryRepo.Update(ctx, unit); err != nil {
		return nil, err
	}

	log.Printf("✅ Blood unit %s dispensed as %s", unit.UnitCode, disposition)
	return unit, nil
}

// SweepExpired marks every available unit past its expiry date as EXPIRED
// and returns how many changed. Called hourly by the scheduler.
func (s *InventoryService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.inventoryRepo.MarkExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("⚠️ Expired %d blood unit(s)", n)
	}
	return n, nil
}
