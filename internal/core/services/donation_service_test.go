package services

import (
	"context"
	"testing"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/config"
	"hicode-bloodlink/internal/core/domain"

	"github.com/stretchr/testify/suite"
)

// stubDonationRepo serves a single in-memory process
type stubDonationRepo struct {
	repositories.DonationRepository
	process *models.DonationProcess
}

func (r *stubDonationRepo) GetByID(_ context.Context, _ uint) (*models.DonationProcess, error) {
	return r.process, nil
}

func (r *stubDonationRepo) Update(_ context.Context, process *models.DonationProcess) error {
	r.process = process
	return nil
}

// stubUserRepo serves a single in-memory donor
type stubUserRepo struct {
	repositories.UserRepository
	donor *models.User
}

func (r *stubUserRepo) GetByID(_ context.Context, _ uint) (*models.User, error) {
	return r.donor, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	r.donor = user
	return nil
}

// stubInventoryRepo records created blood units
type stubInventoryRepo struct {
	repositories.InventoryRepository
	created []*models.BloodUnit
}

func (r *stubInventoryRepo) Create(_ context.Context, unit *models.BloodUnit) error {
	r.created = append(r.created, unit)
	return nil
}

type DonationWorkflowSuite struct {
	suite.Suite
	donationRepo  *stubDonationRepo
	userRepo      *stubUserRepo
	inventoryRepo *stubInventoryRepo
	svc           *DonationService
}

func (s *DonationWorkflowSuite) SetupTest() {
	bloodTypeID := uint(3)
	volume := 450

	s.donationRepo = &stubDonationRepo{
		process: &models.DonationProcess{
			ID:                7,
			DonorID:           42,
			Status:            string(domain.DonationBloodCollected),
			DonationType:      string(domain.DonationTypeStandard),
			CollectedVolumeML: &volume,
		},
	}
	s.userRepo = &stubUserRepo{
		donor: &models.User{
			ID:          42,
			Email:       "donor@example.com",
			FullName:    "Test Donor",
			BloodTypeID: &bloodTypeID,
		},
	}
	s.inventoryRepo = &stubInventoryRepo{}

	cfg := &config.Config{
		Donation: config.DonationConfig{UnitShelfLifeDays: 42},
	}
	s.svc = NewDonationService(s.donationRepo, s.userRepo, s.inventoryRepo, NewNotificationService(cfg), cfg)
}

func (s *DonationWorkflowSuite) TestPassingResultCompletesAndStocksUnit() {
	process, err := s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: true})
	s.Require().NoError(err)

	s.Equal(string(domain.DonationCompleted), process.Status)
	s.Require().Len(s.inventoryRepo.created, 1)

	unit := s.inventoryRepo.created[0]
	s.Equal(uint(7), unit.ProcessID)
	s.Equal(uint(3), unit.BloodTypeID)
	s.Equal(450, unit.VolumeML)
	s.Equal(models.UnitStatusAvailable, unit.Status)
}

func (s *DonationWorkflowSuite) TestPassingResultBackfillsDonorBloodType() {
	s.userRepo.donor.BloodTypeID = nil
	labTyped := uint(5)

	_, err := s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: true, BloodTypeID: &labTyped})
	s.Require().NoError(err)

	s.Require().NotNil(s.userRepo.donor.BloodTypeID)
	s.Equal(uint(5), *s.userRepo.donor.BloodTypeID)
	s.Require().Len(s.inventoryRepo.created, 1)
	s.Equal(uint(5), s.inventoryRepo.created[0].BloodTypeID)
}

func (s *DonationWorkflowSuite) TestPassingResultWithoutAnyBloodType() {
	s.userRepo.donor.BloodTypeID = nil

	_, err := s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: true})
	s.ErrorIs(err, ErrMissingBloodType)
	s.Empty(s.inventoryRepo.created)
}

func (s *DonationWorkflowSuite) TestFailingResultTerminates() {
	process, err := s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: false, Notes: "HBV positive"})
	s.Require().NoError(err)

	s.Equal(string(domain.DonationTestingFailed), process.Status)
	s.Equal("HBV positive", process.Note)
	s.Empty(s.inventoryRepo.created)
}

func (s *DonationWorkflowSuite) TestResultRejectedBeforeCollection() {
	s.donationRepo.process.Status = string(domain.DonationPendingApproval)

	_, err := s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: true})
	s.ErrorIs(err, domain.ErrInvalidTransition)
	s.Empty(s.inventoryRepo.created)
}

func (s *DonationWorkflowSuite) TestResultIsSingleFlight() {
	// A second submission sees COMPLETED and the guard rejects it
	_, err := s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: true})
	s.Require().NoError(err)

	_, err = s.svc.RecordTestResult(context.Background(), 7, &TestResultInput{Passed: true})
	s.ErrorIs(err, domain.ErrInvalidTransition)
	s.Len(s.inventoryRepo.created, 1)
}

func TestDonationWorkflowSuite(t *testing.T) {
	suite.Run(t, new(DonationWorkflowSuite))
}
