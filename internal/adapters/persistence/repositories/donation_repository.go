package repositories

import (
	"context"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/core/domain"

	"gorm.io/gorm"
)

// donationRepository implements DonationRepository interface
type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

// Create creates a new donation process
func (r *donationRepository) Create(ctx context.Context, process *models.DonationProcess) error {
	return r.db.WithContext(ctx).Create(process).Error
}

// GetByID gets a process with donor, appointment and health check preloaded
func (r *donationRepository) GetByID(ctx context.Context, id uint) (*models.DonationProcess, error) {
	var process models.DonationProcess
	err := r.db.WithContext(ctx).
		Preload("Donor").Preload("Donor.BloodType").
		Preload("Appointment").Preload("HealthCheck").
		Where("id = ?", id).First(&process).Error
	if err != nil {
		return nil, err
	}
	return &process, nil
}

// ListByDonor lists all processes of one donor, newest first
func (r *donationRepository) ListByDonor(ctx context.Context, donorID uint) ([]*models.DonationProcess, error) {
	var processes []*models.DonationProcess
	err := r.db.WithContext(ctx).
		Preload("Appointment").Preload("HealthCheck").
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&processes).Error
	return processes, err
}

// List lists processes with optional status filter and pagination
func (r *donationRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.DonationProcess, int64, error) {
	var processes []*models.DonationProcess
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DonationProcess{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Donor").Preload("Donor.BloodType").
		Preload("Appointment").Preload("HealthCheck").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&processes).Error; err != nil {
		return nil, 0, err
	}

	return processes, total, nil
}

// Update updates a donation process
func (r *donationRepository) Update(ctx context.Context, process *models.DonationProcess) error {
	return r.db.WithContext(ctx).Save(process).Error
}

// HasActiveProcess checks whether the donor already has a process that is
// not in a terminal status.
func (r *donationRepository) HasActiveProcess(ctx context.Context, donorID uint) (bool, error) {
	var count int64
	terminal := []string{
		string(domain.DonationRejected),
		string(domain.DonationCompleted),
		string(domain.DonationHealthCheckFailed),
		string(domain.DonationTestingFailed),
	}
	err := r.db.WithContext(ctx).Model(&models.DonationProcess{}).
		Where("donor_id = ? AND status NOT IN ?", donorID, terminal).
		Count(&count).Error
	return count > 0, err
}

// SaveAppointment creates or updates an appointment
func (r *donationRepository) SaveAppointment(ctx context.Context, appointment *models.DonationAppointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// SaveHealthCheck creates or updates a health check
func (r *donationRepository) SaveHealthCheck(ctx context.Context, check *models.HealthCheck) error {
	return r.db.WithContext(ctx).Save(check).Error
}

// ListAppointmentsOn lists appointments falling in the window [from, to)
func (r *donationRepository) ListAppointmentsOn(ctx context.Context, from, to time.Time) ([]*models.DonationAppointment, error) {
	var appointments []*models.DonationAppointment
	err := r.db.WithContext(ctx).
		Where("appointment_date >= ? AND appointment_date < ?", from, to).
		Find(&appointments).Error
	return appointments, err
}

// CountByStatus counts processes grouped by status
func (r *donationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.DonationProcess{}).
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

// CountCompletedSince counts completed donations since the given time
func (r *donationRepository) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DonationProcess{}).
		Where("status = ? AND updated_at >= ?", string(domain.DonationCompleted), since).
		Count(&count).Error
	return count, err
}

// SumCollectedVolumeByDonor sums collected volume over a donor's completed processes
func (r *donationRepository) SumCollectedVolumeByDonor(ctx context.Context, donorID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.DonationProcess{}).
		Where("donor_id = ? AND status = ?", donorID, string(domain.DonationCompleted)).
		Select("COALESCE(SUM(collected_volume_ml), 0)").
		Scan(&total).Error
	return total, err
}
