package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// ============================================================
// OTP Service - email verification for two-step registration
// ============================================================

// OTP errors
var (
	ErrOTPNotFound      = errors.New("no pending verification for this email")
	ErrOTPExpired       = errors.New("verification code has expired")
	ErrOTPMismatch      = errors.New("verification code is incorrect")
	ErrOTPMaxAttempts   = errors.New("too many incorrect attempts")
	ErrOTPResendTooSoon = errors.New("please wait before requesting a new code")
)

const (
	otpLength      = 6
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5
	otpResendFloor = 1 * time.Minute
)

// PendingRegistration holds a registration payload waiting for OTP
// confirmation. The account is only created once the code is verified.
type PendingRegistration struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	DateOfBirth  *time.Time
	Gender       string
	Address      string
	BloodTypeID  *uint
}

// otpEntry is a single pending verification record in memory
type otpEntry struct {
	Code         string
	Registration *PendingRegistration
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Attempts     int
}

// OTPService issues and verifies registration codes. Entries live in
// memory only; an interrupted registration simply starts over.
type OTPService struct {
	store map[string]*otpEntry // key = email
	mu    sync.RWMutex
	stop  chan struct{}
}

// NewOTPService creates a new OTP service
func NewOTPService() *OTPService {
	svc := &OTPService{
		store: make(map[string]*otpEntry),
		stop:  make(chan struct{}),
	}
	// Cleanup expired entries every 5 minutes
	go svc.cleanupLoop()
	return svc
}

// Stop terminates the cleanup goroutine
func (s *OTPService) Stop() {
	close(s.stop)
}

// IssueCode creates a new code for a pending registration and returns it
// (to be delivered out of band). Re-issuing within the resend floor fails.
func (s *OTPService) IssueCode(reg *PendingRegistration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.store[reg.Email]; ok {
		if time.Since(existing.IssuedAt) < otpResendFloor {
			return "", ErrOTPResendTooSoon
		}
	}

	code, err := generateSecureOTP(otpLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	s.store[reg.Email] = &otpEntry{
		Code:         code,
		Registration: reg,
		IssuedAt:     now,
		ExpiresAt:    now.Add(otpTTL),
	}

	return code, nil
}

// ReissueCode replaces the code for an existing pending registration,
// keeping the stored payload.
func (s *OTPService) ReissueCode(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[email]
	if !ok {
		return "", ErrOTPNotFound
	}
	if time.Since(entry.IssuedAt) < otpResendFloor {
		return "", ErrOTPResendTooSoon
	}

	code, err := generateSecureOTP(otpLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	entry.Code = code
	entry.IssuedAt = now
	entry.ExpiresAt = now.Add(otpTTL)
	entry.Attempts = 0

	return code, nil
}

// Verify checks the submitted code. On success the pending registration is
// consumed and returned; afterwards the same code cannot be used again.
func (s *OTPService) Verify(email, code string) (*PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[email]
	if !ok {
		return nil, ErrOTPNotFound
	}

	if time.Now().After(entry.ExpiresAt) {
		delete(s.store, email)
		return nil, ErrOTPExpired
	}

	if entry.Attempts >= otpMaxAttempts {
		delete(s.store, email)
		return nil, ErrOTPMaxAttempts
	}

	entry.Attempts++
	if entry.Code != code {
		return nil, ErrOTPMismatch
	}

	reg := entry.Registration
	delete(s.store, email)
	return reg, nil
}

// HasPending reports whether a registration is waiting for verification.
func (s *OTPService) HasPending(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.store[email]
	return ok && time.Now().Before(entry.ExpiresAt)
}

// cleanupLoop periodically removes expired entries
func (s *OTPService) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.store {
				if time.Now().After(entry.ExpiresAt) {
					delete(s.store, key)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// generateSecureOTP generates a cryptographically secure random OTP
func generateSecureOTP(length int) (string, error) {
	result := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result += fmt.Sprintf("%d", n.Int64())
	}
	return result, nil
}
