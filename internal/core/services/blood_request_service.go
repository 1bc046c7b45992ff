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

	"gorm.io/gorm"
)

// Blood request errors
var (
	ErrRequestNotFound    = errors.New("blood request not found")
	ErrUnknownBloodType   = errors.New("blood type not found")
	ErrPledgeNeedsProfile = errors.New("donor must have a blood type on their profile to pledge")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidUrgency     = errors.New("unknown urgency level")
)

// BloodRequestService manages emergency blood requests and donor pledges.
type BloodRequestService struct {
	requestRepo   repositories.BloodRequestRepository
	donationRepo  repositories.DonationRepository
	userRepo      repositories.UserRepository
	bloodTypeRepo repositories.BloodTypeRepository
	notifyService *NotificationService
	cfg           *config.Config
}

// NewBloodRequestService creates a new blood request service
func NewBloodRequestService(
	requestRepo repositories.BloodRequestRepository,
	donationRepo repositories.DonationRepository,
	userRepo repositories.UserRepository,
	bloodTypeRepo repositories.BloodTypeRepository,
	notifyService *NotificationService,
	cfg *config.Config,
) *BloodRequestService {
	return &BloodRequestService{
		requestRepo:   requestRepo,
		donationRepo:  donationRepo,
		userRepo:      userRepo,
		bloodTypeRepo: bloodTypeRepo,
		notifyService: notifyService,
		cfg:           cfg,
	}
}

// CreateRequestInput represents emergency request creation input
type CreateRequestInput struct {
	PatientName     string `json:"patient_name" validate:"required"`
	Hospital        string `json:"hospital" validate:"required"`
	BloodTypeID     uint   `json:"blood_type_id" validate:"required"`
	QuantityInUnits int    `json:"quantity_in_units" validate:"required,gt=0"`
	Urgency         string `json:"urgency" validate:"required,oneof=NORMAL URGENT CRITICAL"`
	RoomNumber      *int   `json:"room_number"`
	BedNumber       *int   `json:"bed_number"`
}

// UpdateStatusInput changes an emergency request's status
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// Create opens a new emergency request. Only one pending request may exist
// per room/bed pair so staff cannot double-register a patient.
func (s *BloodRequestService) Create(ctx context.Context, createdByID uint, input *CreateRequestInput) (*models.BloodRequest, error) {
	bloodType, err := s.bloodTypeRepo.GetByID(ctx, input.BloodTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownBloodType
		}
		return nil, err
	}

	if input.RoomNumber != nil && input.BedNumber != nil {
		occupied, err := s.requestRepo.ExistsPendingAtBed(ctx, *input.RoomNumber, *input.BedNumber)
		if err != nil {
			return nil, err
		}
		if occupied {
			return nil, domain.ErrBedOccupied
		}
	}

	request := &models.BloodRequest{
		PatientName:     input.PatientName,
		Hospital:        input.Hospital,
		BloodTypeID:     input.BloodTypeID,
		QuantityInUnits: input.QuantityInUnits,
		Urgency:         input.Urgency,
		Status:          string(domain.RequestPending),
		RoomNumber:      input.RoomNumber,
		BedNumber:       input.BedNumber,
		CreatedByID:     createdByID,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Blood request #%d created: %d unit(s) of %s for %s",
		request.ID, request.QuantityInUnits, bloodType.Label(), request.Hospital)

	go s.broadcastToCompatibleDonors(request, bloodType.Label())

	return request, nil
}

// broadcastToCompatibleDonors notifies every ready donor whose blood type
// can serve the request. Runs in the background; failures are logged only.
func (s *BloodRequestService) broadcastToCompatibleDonors(request *models.BloodRequest, label string) {
	ctx := context.Background()

	donorTypes, err := s.bloodTypeRepo.ListCompatibleDonors(ctx, request.BloodTypeID, models.ComponentWhole)
	if err != nil {
		log.Printf("❌ Failed to resolve compatible donors for request #%d: %v", request.ID, err)
		return
	}

	notified := 0
	for _, dt := range donorTypes {
		typeID := dt.ID
		donors, err := s.userRepo.ListReadyDonors(ctx, &typeID)
		if err != nil {
			log.Printf("❌ Failed to list ready donors of type %s: %v", dt.Label(), err)
			continue
		}
		for _, donor := range donors {
			s.notifyService.NotifyEmergencyRequest(donor.Email, request, label)
			notified++
		}
	}

	log.Printf("📨 Emergency request #%d broadcast to %d donor(s)", request.ID, notified)
}

// Get fetches one request by ID
func (s *BloodRequestService) Get(ctx context.Context, id uint) (*models.BloodRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// ListActive lists pending requests ordered by urgency
func (s *BloodRequestService) ListActive(ctx context.Context, offset, limit int) ([]*models.BloodRequest, int64, error) {
	return s.requestRepo.ListByStatus(ctx, string(domain.RequestPending), offset, limit)
}

// ListCompleted lists fulfilled requests
func (s *BloodRequestService) ListCompleted(ctx context.Context, offset, limit int) ([]*models.BloodRequest, int64, error) {
	return s.requestRepo.ListByStatus(ctx, string(domain.RequestFulfilled), offset, limit)
}

// List lists all requests, paginated
func (s *BloodRequestService) List(ctx context.Context, offset, limit int, order string) ([]*models.BloodRequest, int64, error) {
	return s.requestRepo.List(ctx, offset, limit, order)
}

// Pledge registers a donor against a pending request and opens an emergency
// donation process already scheduled at the requesting hospital. One pledge
// per donor per request.
func (s *BloodRequestService) Pledge(ctx context.Context, donorID, requestID uint) (*models.DonationProcess, error) {
	request, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if domain.NormalizeRequestStatus(domain.RequestStatus(request.Status)) != domain.RequestPending {
		return nil, domain.ErrRequestNotActive
	}

	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if donor.BloodTypeID == nil {
		return nil, ErrPledgeNeedsProfile
	}
	if !donor.IsReadyToDonate {
		return nil, domain.ErrDonorNotReady
	}

	pledged, err := s.requestRepo.HasPledge(ctx, donorID, requestID)
	if err != nil {
		return nil, err
	}
	if pledged {
		return nil, domain.ErrAlreadyPledged
	}

	// Emergency pledges skip approval: the process starts already
	// scheduled at the requesting hospital.
	process := &models.DonationProcess{
		DonorID:      donorID,
		Status:       string(domain.DonationAppointmentScheduled),
		DonationType: string(domain.DonationTypeEmergency),
		Note:         fmt.Sprintf("Emergency pledge for request #%d", request.ID),
	}
	if err := s.donationRepo.Create(ctx, process); err != nil {
		return nil, err
	}

	if err := s.donationRepo.SaveAppointment(ctx, &models.DonationAppointment{
		ProcessID:       process.ID,
		AppointmentDate: time.Now().Add(24 * time.Hour),
		Location:        request.Hospital,
		Notes:           "Emergency donation for patient " + request.PatientName,
	}); err != nil {
		return nil, err
	}

	if err := s.requestRepo.CreatePledge(ctx, &models.DonationPledge{
		DonorID:        donorID,
		BloodRequestID: requestID,
		ProcessID:      process.ID,
	}); err != nil {
		return nil, err
	}

	log.Printf("✅ Donor %d pledged to request #%d (process #%d)", donorID, requestID, process.ID)
	return process, nil
}

// UpdateStatus moves a request to FULFILLED or CANCELLED. Fulfilling a
// request that has not gathered enough pledges is allowed but logged.
func (s *BloodRequestService) UpdateStatus(ctx context.Context, id uint, input *UpdateStatusInput) (*models.BloodRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := domain.RequestStatus(request.Status)
	to := domain.NormalizeRequestStatus(domain.RequestStatus(input.Status))
	if !domain.CanTransitionRequest(from, to) {
		return nil, domain.ErrInvalidTransition
	}

	if to == domain.RequestFulfilled {
		pledges, err := s.requestRepo.CountPledges(ctx, id)
		if err != nil {
			return nil, err
		}
		if int(pledges) < request.QuantityInUnits {
			log.Printf("⚠️ Request #%d fulfilled with %d/%d pledges", id, pledges, request.QuantityInUnits)
		}
	}

	request.Status = string(to)
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	if to == domain.RequestFulfilled {
		creator, err := s.userRepo.GetByID(ctx, request.CreatedByID)
		if err == nil {
			s.notifyService.NotifyRequestFulfilled(creator.Email, request)
		}
	}

	log.Printf("✅ Blood request #%d: %s → %s", id, from, to)
	return request, nil
}

// UpdateRequestInput represents staff edits to an open request
type UpdateRequestInput struct {
	PatientName     *string `json:"patient_name"`
	Hospital        *string `json:"hospital"`
	QuantityInUnits *int    `json:"quantity_in_units"`
	Urgency         *string `json:"urgency"`
	RoomNumber      *int    `json:"room_number"`
	BedNumber       *int    `json:"bed_number"`
}

// Update edits the details of a request that is still PENDING. Closed
// requests are immutable.
func (s *BloodRequestService) Update(ctx context.Context, id uint, input *UpdateRequestInput) (*models.BloodRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.RequestStatus(request.Status) != domain.RequestPending {
		return nil, domain.ErrRequestNotActive
	}

	if input.PatientName != nil {
		request.PatientName = *input.PatientName
	}
	if input.Hospital != nil {
		request.Hospital = *input.Hospital
	}
	if input.QuantityInUnits != nil {
		if *input.QuantityInUnits <= 0 {
			return nil, ErrInvalidQuantity
		}
		request.QuantityInUnits = *input.QuantityInUnits
	}
	if input.Urgency != nil {
		switch *input.Urgency {
		case models.UrgencyNormal, models.UrgencyUrgent, models.UrgencyCritical:
			request.Urgency = *input.Urgency
		default:
			return nil, ErrInvalidUrgency
		}
	}
	if input.RoomNumber != nil {
		request.RoomNumber = input.RoomNumber
	}
	if input.BedNumber != nil {
		request.BedNumber = input.BedNumber
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Delete soft-deletes a request. Pending requests must be cancelled first
// so pledged donors are not left pointing at a vanished request.
func (s *BloodRequestService) Delete(ctx context.Context, id uint) error {
	request, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if domain.RequestStatus(request.Status) == domain.RequestPending {
		return domain.ErrRequestStillPending
	}
	return s.requestRepo.Delete(ctx, id)
}
