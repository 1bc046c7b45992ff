package services

import (
	"context"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/core/domain"
)

// DashboardService aggregates statistics for the admin and member views
type DashboardService struct {
	userRepo      repositories.UserRepository
	donationRepo  repositories.DonationRepository
	requestRepo   repositories.BloodRequestRepository
	inventoryRepo repositories.InventoryRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repositories.UserRepository,
	donationRepo repositories.DonationRepository,
	requestRepo repositories.BloodRequestRepository,
	inventoryRepo repositories.InventoryRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:      userRepo,
		donationRepo:  donationRepo,
		requestRepo:   requestRepo,
		inventoryRepo: inventoryRepo,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User statistics
	TotalMembers int64 `json:"total_members"`
	TotalStaff   int64 `json:"total_staff"`
	TotalAdmins  int64 `json:"total_admins"`

	// Donation statistics
	DonationsByStatus  map[string]int64 `json:"donations_by_status"`
	CompletedThisMonth int64            `json:"completed_this_month"`
	PendingApprovals   int64            `json:"pending_approvals"`
	ScheduledDonations int64            `json:"scheduled_donations"`

	// Emergency request statistics
	RequestsByStatus map[string]int64 `json:"requests_by_status"`
	ActiveRequests   int64            `json:"active_requests"`

	// Inventory
	Inventory []*repositories.InventorySummaryRow `json:"inventory"`
}

// GetAdminDashboard builds the staff/admin overview
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	var err error
	if data.TotalMembers, err = s.userRepo.CountByRole(ctx, uint(domain.RoleMember)); err != nil {
		return nil, err
	}
	if data.TotalStaff, err = s.userRepo.CountByRole(ctx, uint(domain.RoleStaff)); err != nil {
		return nil, err
	}
	if data.TotalAdmins, err = s.userRepo.CountByRole(ctx, uint(domain.RoleAdmin)); err != nil {
		return nil, err
	}

	if data.DonationsByStatus, err = s.donationRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	data.PendingApprovals = data.DonationsByStatus[string(domain.DonationPendingApproval)]
	data.ScheduledDonations = data.DonationsByStatus[string(domain.DonationAppointmentScheduled)]

	monthStart := time.Now().AddDate(0, 0, -30)
	if data.CompletedThisMonth, err = s.donationRepo.CountCompletedSince(ctx, monthStart); err != nil {
		return nil, err
	}

	if data.RequestsByStatus, err = s.requestRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	data.ActiveRequests = data.RequestsByStatus[string(domain.RequestPending)]

	if data.Inventory, err = s.inventoryRepo.SummaryByType(ctx); err != nil {
		return nil, err
	}

	return data, nil
}

// ============================================================
// Member Dashboard
// ============================================================

// MemberDashboardData represents a donor's personal dashboard
type MemberDashboardData struct {
	TotalDonations  int64                           `json:"total_donations"`
	TotalVolumeML   int64                           `json:"total_volume_ml"`
	IsReadyToDonate bool                            `json:"is_ready_to_donate"`
	NextEligibleAt  *time.Time                      `json:"next_eligible_at"`
	ActiveProcess   *models.DonationProcessResponse `json:"active_process"`
	ActiveRequests  int64                           `json:"active_requests"`
}

// GetMemberDashboard builds a donor's personal overview. intervalDays is
// the configured gap between donations, used to project the next eligible
// date for donors still in recovery.
func (s *DashboardService) GetMemberDashboard(ctx context.Context, userID uint, intervalDays int) (*MemberDashboardData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	data := &MemberDashboardData{
		IsReadyToDonate: user.IsReadyToDonate,
	}

	if !user.IsReadyToDonate && user.LastDonationDate != nil {
		next := user.LastDonationDate.AddDate(0, 0, intervalDays)
		data.NextEligibleAt = &next
	}

	processes, err := s.donationRepo.ListByDonor(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range processes {
		status := domain.DonationStatus(p.Status)
		if status == domain.DonationCompleted {
			data.TotalDonations++
		}
		if !domain.IsTerminalDonation(status) && data.ActiveProcess == nil {
			data.ActiveProcess = p.ToResponse()
		}
	}

	if data.TotalVolumeML, err = s.donationRepo.SumCollectedVolumeByDonor(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	data.ActiveRequests = requests[string(domain.RequestPending)]

	return data, nil
}
