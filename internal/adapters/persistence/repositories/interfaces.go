package repositories

import (
	"context"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, search string, roleID *uint, offset, limit int, order string) ([]*models.User, int64, error)
	ListReadyDonors(ctx context.Context, bloodTypeID *uint) ([]*models.User, error)
	RestoreReadiness(ctx context.Context, before time.Time) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, roleID uint) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// BloodTypeRepository defines blood type master-data repository interface.
// The eight types and the compatibility matrix are seeded at startup; staff
// may edit descriptions and matrix entries but never add or remove types.
type BloodTypeRepository interface {
	GetByID(ctx context.Context, id uint) (*models.BloodType, error)
	List(ctx context.Context) ([]*models.BloodType, error)
	Update(ctx context.Context, bloodType *models.BloodType) error

	UpsertCompatibility(ctx context.Context, compat *models.BloodCompatibility) error
	ListCompatibilities(ctx context.Context) ([]*models.BloodCompatibility, error)
	ListCompatibleDonors(ctx context.Context, recipientTypeID uint, component string) ([]*models.BloodType, error)
	ListCompatibleRecipients(ctx context.Context, donorTypeID uint, component string) ([]*models.BloodType, error)
}

// DonationRepository defines donation process repository interface
type DonationRepository interface {
	Create(ctx context.Context, process *models.DonationProcess) error
	GetByID(ctx context.Context, id uint) (*models.DonationProcess, error)
	ListByDonor(ctx context.Context, donorID uint) ([]*models.DonationProcess, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.DonationProcess, int64, error)
	Update(ctx context.Context, process *models.DonationProcess) error
	HasActiveProcess(ctx context.Context, donorID uint) (bool, error)
	SaveAppointment(ctx context.Context, appointment *models.DonationAppointment) error
	SaveHealthCheck(ctx context.Context, check *models.HealthCheck) error
	ListAppointmentsOn(ctx context.Context, from, to time.Time) ([]*models.DonationAppointment, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int64, error)
	SumCollectedVolumeByDonor(ctx context.Context, donorID uint) (int64, error)
}

// BloodRequestRepository defines emergency request repository interface
type BloodRequestRepository interface {
	Create(ctx context.Context, request *models.BloodRequest) error
	GetByID(ctx context.Context, id uint) (*models.BloodRequest, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.BloodRequest, int64, error)
	List(ctx context.Context, offset, limit int, order string) ([]*models.BloodRequest, int64, error)
	Update(ctx context.Context, request *models.BloodRequest) error
	Delete(ctx context.Context, id uint) error
	ExistsPendingAtBed(ctx context.Context, roomNumber, bedNumber int) (bool, error)
	CreatePledge(ctx context.Context, pledge *models.DonationPledge) error
	HasPledge(ctx context.Context, donorID, requestID uint) (bool, error)
	CountPledges(ctx context.Context, requestID uint) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// InventoryRepository defines blood unit repository interface
type InventoryRepository interface {
	Create(ctx context.Context, unit *models.BloodUnit) error
	GetByID(ctx context.Context, id uint) (*models.BloodUnit, error)
	List(ctx context.Context, status string, bloodTypeID *uint, offset, limit int) ([]*models.BloodUnit, int64, error)
	Update(ctx context.Context, unit *models.BloodUnit) error
	SummaryByType(ctx context.Context) ([]*InventorySummaryRow, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// InventorySummaryRow is one aggregate row of the inventory summary.
type InventorySummaryRow struct {
	BloodTypeID uint   `json:"blood_type_id"`
	BloodGroup  string `json:"blood_group"`
	RhFactor    string `json:"rh_factor"`
	Units       int64  `json:"units"`
	TotalVolume int64  `json:"total_volume_ml"`
}

// BlogRepository defines blog post repository interface
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	ListPublished(ctx context.Context, offset, limit int) ([]*models.BlogPost, int64, error)
	ListAll(ctx context.Context, status string, offset, limit int) ([]*models.BlogPost, int64, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
}
