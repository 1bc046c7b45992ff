package services

import (
	"context"
	"log"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/config"

	"github.com/robfig/cron/v3"
)

// CronService owns the scheduled jobs: morning appointment reminders,
// donor readiness recovery, the hourly inventory expiry sweep and refresh
// token cleanup.
type CronService struct {
	cron             *cron.Cron
	donationRepo     repositories.DonationRepository
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	inventoryService *InventoryService
	notifyService    *NotificationService
	cfg              *config.Config
}

// NewCronService creates a new cron service
func NewCronService(
	donationRepo repositories.DonationRepository,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	inventoryService *InventoryService,
	notifyService *NotificationService,
	cfg *config.Config,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		donationRepo:     donationRepo,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		inventoryService: inventoryService,
		notifyService:    notifyService,
		cfg:              cfg,
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() {
	// Appointment reminders every morning
	s.cron.AddFunc("30 8 * * *", s.sendAppointmentReminders)

	// Readiness recovery after the donation interval, once a night
	s.cron.AddFunc("0 2 * * *", s.restoreDonorReadiness)

	// Expiry sweep every hour
	s.cron.AddFunc("0 * * * *", s.sweepExpiredUnits)

	// Session cleanup once a night
	s.cron.AddFunc("30 3 * * *", s.cleanupExpiredTokens)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// sendAppointmentReminders notifies every donor with an appointment tomorrow,
// one day ahead so they still have time to prepare or reschedule
func (s *CronService) sendAppointmentReminders() {
	ctx := context.Background()

	from, to := reminderWindow(time.Now())
	appointments, err := s.donationRepo.ListAppointmentsOn(ctx, from, to)
	if err != nil {
		log.Printf("❌ Reminder query error: %v", err)
		return
	}

	sent := 0
	for _, appt := range appointments {
		process, err := s.donationRepo.GetByID(ctx, appt.ProcessID)
		if err != nil || process.Donor == nil {
			continue
		}
		s.notifyService.NotifyAppointmentReminder(
			process.Donor.Email,
			process.Donor.FullName,
			appt.Location,
			appt.AppointmentDate,
		)
		sent++
	}

	if sent > 0 {
		log.Printf("✅ Sent %d appointment reminder(s)", sent)
	}
}

// reminderWindow covers the whole of tomorrow in the local calendar
func reminderWindow(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return from, from.AddDate(0, 0, 1)
}

// restoreDonorReadiness flips donors back to ready once the configured
// interval has passed since their last donation
func (s *CronService) restoreDonorReadiness() {
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -s.cfg.Donation.IntervalDays)
	n, err := s.userRepo.RestoreReadiness(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Readiness recovery error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Restored donation readiness for %d donor(s)", n)
	}
}

// sweepExpiredUnits expires stored units past their shelf life
func (s *CronService) sweepExpiredUnits() {
	if _, err := s.inventoryService.SweepExpired(context.Background()); err != nil {
		log.Printf("❌ Inventory expiry sweep error: %v", err)
	}
}

// cleanupExpiredTokens removes long-expired refresh tokens
func (s *CronService) cleanupExpiredTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Token cleanup error: %v", err)
	}
}
