package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/config"
	"hicode-bloodlink/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donation errors
var (
	ErrProcessNotFound  = errors.New("donation process not found")
	ErrActiveProcess    = errors.New("donor already has an active donation process")
	ErrMissingVolume    = errors.New("collected volume is required")
	ErrNotProcessOwner  = errors.New("donation process belongs to another donor")
	ErrMissingBloodType = errors.New("donor has no blood type on record")
)

// DonationService drives the donation process state machine from request
// through testing and inventory intake.
type DonationService struct {
	donationRepo  repositories.DonationRepository
	userRepo      repositories.UserRepository
	inventoryRepo repositories.InventoryRepository
	notifyService *NotificationService
	cfg           *config.Config
}

// NewDonationService creates a new donation service
func NewDonationService(
	donationRepo repositories.DonationRepository,
	userRepo repositories.UserRepository,
	inventoryRepo repositories.InventoryRepository,
	notifyService *NotificationService,
	cfg *config.Config,
) *DonationService {
	return &DonationService{
		donationRepo:  donationRepo,
		userRepo:      userRepo,
		inventoryRepo: inventoryRepo,
		notifyService: notifyService,
		cfg:           cfg,
	}
}

// CreateProcessInput represents a donor's request to donate
type CreateProcessInput struct {
	Note string `json:"note"`
}

// ScheduleInput represents appointment scheduling input
type ScheduleInput struct {
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
}

// HealthCheckInput represents health screening input
type HealthCheckInput struct {
	IsEligible      bool     `json:"is_eligible"`
	BloodPressure   string   `json:"blood_pressure"`
	HeartRate       *int     `json:"heart_rate"`
	Temperature     *float64 `json:"temperature"`
	Weight          *float64 `json:"weight"`
	HemoglobinLevel *float64 `json:"hemoglobin_level"`
	Notes           string   `json:"notes"`
}

// CollectInput records the blood collection
type CollectInput struct {
	VolumeML int `json:"volume_ml" validate:"required,gt=0"`
}

// TestResultInput records the lab result for collected blood. BloodTypeID
// carries the lab-typed blood group for donors who registered without one.
type TestResultInput struct {
	Passed         bool   `json:"passed"`
	Notes          string `json:"notes"`
	BloodTypeID    *uint  `json:"blood_type_id"`
	CertificateURL string `json:"certificate_url"`
}

// CreateProcess opens a new donation process for a donor. The donor must be
// marked ready and must not have another process still in flight.
func (s *DonationService) CreateProcess(ctx context.Context, donorID uint, input *CreateProcessInput) (*models.DonationProcess, error) {
	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !donor.IsReadyToDonate {
		return nil, domain.ErrDonorNotReady
	}

	active, err := s.donationRepo.HasActiveProcess(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrActiveProcess
	}

	process := &models.DonationProcess{
		DonorID:      donorID,
		Status:       string(domain.DonationPendingApproval),
		DonationType: string(domain.DonationTypeStandard),
		Note:         input.Note,
	}

	if err := s.donationRepo.Create(ctx, process); err != nil {
		return nil, err
	}

	log.Printf("✅ Donation process #%d opened for donor %d", process.ID, donorID)
	return process, nil
}

// GetProcess fetches one process with its appointment and health check
func (s *DonationService) GetProcess(ctx context.Context, id uint) (*models.DonationProcess, error) {
	process, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProcessNotFound
		}
		return nil, err
	}
	return process, nil
}

// ListMyProcesses lists the donation history of one donor
func (s *DonationService) ListMyProcesses(ctx context.Context, donorID uint) ([]*models.DonationProcess, error) {
	return s.donationRepo.ListByDonor(ctx, donorID)
}

// ListProcesses lists processes with optional status filter, paginated
func (s *DonationService) ListProcesses(ctx context.Context, status string, offset, limit int) ([]*models.DonationProcess, int64, error) {
	return s.donationRepo.List(ctx, status, offset, limit)
}

// Approve moves a pending process to APPOINTMENT_PENDING
func (s *DonationService) Approve(ctx context.Context, id uint) (*models.DonationProcess, error) {
	return s.transition(ctx, id, domain.DonationAppointmentPending, nil)
}

// Reject closes a pending process
func (s *DonationService) Reject(ctx context.Context, id uint, reason string) (*models.DonationProcess, error) {
	return s.transition(ctx, id, domain.DonationRejected, func(p *models.DonationProcess) error {
		if reason != "" {
			p.Note = reason
		}
		return nil
	})
}

// ScheduleAppointment books the donation appointment. The date must be in
// the future; an empty location falls back to the configured donation site.
func (s *DonationService) ScheduleAppointment(ctx context.Context, id uint, input *ScheduleInput) (*models.DonationProcess, error) {
	if !input.AppointmentDate.After(time.Now()) {
		return nil, domain.ErrAppointmentInPast
	}

	location := input.Location
	if location == "" {
		location = s.cfg.Donation.DefaultLocation
	}

	return s.transition(ctx, id, domain.DonationAppointmentScheduled, func(p *models.DonationProcess) error {
		return s.donationRepo.SaveAppointment(ctx, &models.DonationAppointment{
			ProcessID:       p.ID,
			AppointmentDate: input.AppointmentDate,
			Location:        location,
			Notes:           input.Notes,
		})
	})
}

// RecordHealthCheck stores the screening result and advances the process to
// HEALTH_CHECK_PASSED or HEALTH_CHECK_FAILED accordingly.
func (s *DonationService) RecordHealthCheck(ctx context.Context, id uint, input *HealthCheckInput) (*models.DonationProcess, error) {
	target := domain.DonationHealthCheckPassed
	if !input.IsEligible {
		target = domain.DonationHealthCheckFailed
	}

	return s.transition(ctx, id, target, func(p *models.DonationProcess) error {
		return s.donationRepo.SaveHealthCheck(ctx, &models.HealthCheck{
			ProcessID:       p.ID,
			IsEligible:      input.IsEligible,
			BloodPressure:   input.BloodPressure,
			HeartRate:       input.HeartRate,
			Temperature:     input.Temperature,
			Weight:          input.Weight,
			HemoglobinLevel: input.HemoglobinLevel,
			Notes:           input.Notes,
		})
	})
}

// RecordCollection marks the blood as drawn. The donor is taken off the
// ready list and the donation date stamped so the recovery job can restore
// readiness after the configured interval.
func (s *DonationService) RecordCollection(ctx context.Context, id uint, input *CollectInput) (*models.DonationProcess, error) {
	if input.VolumeML <= 0 {
		return nil, ErrMissingVolume
	}

	return s.transition(ctx, id, domain.DonationBloodCollected, func(p *models.DonationProcess) error {
		p.CollectedVolumeML = &input.VolumeML

		donor, err := s.userRepo.GetByID(ctx, p.DonorID)
		if err != nil {
			return err
		}
		now := time.Now()
		donor.IsReadyToDonate = false
		donor.LastDonationDate = &now
		return s.userRepo.Update(ctx, donor)
	})
}

// RecordTestResult stores the lab verdict. A pass moves the unit into
// inventory and completes the process; a fail terminates it.
func (s *DonationService) RecordTestResult(ctx context.Context, id uint, input *TestResultInput) (*models.DonationProcess, error) {
	if !input.Passed {
		return s.transition(ctx, id, domain.DonationTestingFailed, func(p *models.DonationProcess) error {
			if input.Notes != "" {
				p.Note = input.Notes
			}
			return nil
		})
	}

	// TESTING_PASSED is folded straight into COMPLETED: the move out of
	// BLOOD_COLLECTED is validated as a pass, but intake happens in the
	// same step and the stored status lands on COMPLETED.
	return s.transitionVia(ctx, id, domain.DonationTestingPassed, domain.DonationCompleted, func(p *models.DonationProcess) error {
		donor, err := s.userRepo.GetByID(ctx, p.DonorID)
		if err != nil {
			return err
		}
		if donor.BloodTypeID == nil {
			// First donation often doubles as blood typing
			if input.BloodTypeID == nil {
				return ErrMissingBloodType
			}
			donor.BloodTypeID = input.BloodTypeID
			if err := s.userRepo.Update(ctx, donor); err != nil {
				return err
			}
		}

		if input.CertificateURL != "" {
			p.CertificateURL = &input.CertificateURL
		}

		volume := 450
		if p.CollectedVolumeML != nil {
			volume = *p.CollectedVolumeML
		}

		now := time.Now()
		unit := &models.BloodUnit{
			ProcessID:   p.ID,
			BloodTypeID: *donor.BloodTypeID,
			UnitCode:    fmt.Sprintf("BU-%s", uuid.New().String()[:8]),
			VolumeML:    volume,
			CollectedAt: now,
			ExpiresAt:   now.AddDate(0, 0, s.cfg.Donation.UnitShelfLifeDays),
			Status:      models.UnitStatusAvailable,
		}
		if err := s.inventoryRepo.Create(ctx, unit); err != nil {
			return err
		}

		s.notifyService.NotifyDonationCompleted(donor.Email, donor.FullName, volume)
		return nil
	})
}

// Cancel lets the donor withdraw their own pending process
func (s *DonationService) Cancel(ctx context.Context, id, donorID uint) (*models.DonationProcess, error) {
	process, err := s.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}
	if process.DonorID != donorID {
		return nil, ErrNotProcessOwner
	}
	return s.transition(ctx, id, domain.DonationRejected, func(p *models.DonationProcess) error {
		p.Note = "Cancelled by donor"
		return nil
	})
}

// transition loads a process, checks the move against the transition table
// and applies any side effects before persisting. A stale current status
// makes the guard fail, which also rejects duplicate submissions of the
// same action.
func (s *DonationService) transition(ctx context.Context, id uint, target domain.DonationStatus, apply func(*models.DonationProcess) error) (*models.DonationProcess, error) {
	return s.transitionVia(ctx, id, target, target, apply)
}

// transitionVia validates the move out of the current status against `via`
// but stores `final`. The two differ only for the test-result fold, where a
// pass is validated as BLOOD_COLLECTED → TESTING_PASSED yet the process
// lands directly on COMPLETED.
func (s *DonationService) transitionVia(ctx context.Context, id uint, via, final domain.DonationStatus, apply func(*models.DonationProcess) error) (*models.DonationProcess, error) {
	process, err := s.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}

	from := domain.DonationStatus(process.Status)
	if !domain.CanTransitionDonation(from, via) {
		log.Printf("⚠️ Rejected donation transition %s → %s on process #%d", from, via, id)
		return nil, domain.ErrInvalidTransition
	}

	if apply != nil {
		if err := apply(process); err != nil {
			return nil, err
		}
	}

	process.Status = string(final)
	if err := s.donationRepo.Update(ctx, process); err != nil {
		return nil, err
	}

	log.Printf("✅ Donation process #%d: %s → %s", id, from, final)
	return process, nil
}
