package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type OTPSuite struct {
	suite.Suite
	svc *OTPService
}

func (s *OTPSuite) SetupTest() {
	s.svc = NewOTPService()
}

func (s *OTPSuite) TearDownTest() {
	s.svc.Stop()
}

func (s *OTPSuite) pending(email string) *PendingRegistration {
	return &PendingRegistration{
		Email:        email,
		PasswordHash: "$2a$12$fakehash",
		FullName:     "Test Donor",
	}
}

func (s *OTPSuite) TestIssueAndVerifyConsumesEntry() {
	code, err := s.svc.IssueCode(s.pending("donor@example.com"))
	s.Require().NoError(err)
	s.Len(code, 6)
	s.True(s.svc.HasPending("donor@example.com"))

	reg, err := s.svc.Verify("donor@example.com", code)
	s.Require().NoError(err)
	s.Equal("Test Donor", reg.FullName)

	// The code is single-use
	_, err = s.svc.Verify("donor@example.com", code)
	s.ErrorIs(err, ErrOTPNotFound)
	s.False(s.svc.HasPending("donor@example.com"))
}

func (s *OTPSuite) TestVerifyUnknownEmail() {
	_, err := s.svc.Verify("nobody@example.com", "123456")
	s.ErrorIs(err, ErrOTPNotFound)
}

func (s *OTPSuite) TestWrongCodeDoesNotConsume() {
	code, err := s.svc.IssueCode(s.pending("donor@example.com"))
	s.Require().NoError(err)

	_, err = s.svc.Verify("donor@example.com", "000000")
	s.ErrorIs(err, ErrOTPMismatch)

	// The right code still works afterwards
	reg, err := s.svc.Verify("donor@example.com", code)
	s.Require().NoError(err)
	s.Equal("donor@example.com", reg.Email)
}

func (s *OTPSuite) TestMaxAttemptsLockout() {
	_, err := s.svc.IssueCode(s.pending("donor@example.com"))
	s.Require().NoError(err)

	for i := 0; i < otpMaxAttempts; i++ {
		_, err = s.svc.Verify("donor@example.com", "000000")
		s.ErrorIs(err, ErrOTPMismatch)
	}

	_, err = s.svc.Verify("donor@example.com", "000000")
	s.ErrorIs(err, ErrOTPMaxAttempts)

	// Entry is gone after lockout
	_, err = s.svc.Verify("donor@example.com", "000000")
	s.ErrorIs(err, ErrOTPNotFound)
}

func (s *OTPSuite) TestExpiredCode() {
	code, err := s.svc.IssueCode(s.pending("donor@example.com"))
	s.Require().NoError(err)

	s.svc.mu.Lock()
	s.svc.store["donor@example.com"].ExpiresAt = time.Now().Add(-time.Minute)
	s.svc.mu.Unlock()

	_, err = s.svc.Verify("donor@example.com", code)
	s.ErrorIs(err, ErrOTPExpired)
	s.False(s.svc.HasPending("donor@example.com"))
}

func (s *OTPSuite) TestResendFloor() {
	_, err := s.svc.IssueCode(s.pending("donor@example.com"))
	s.Require().NoError(err)

	// Immediately reissuing is refused
	_, err = s.svc.ReissueCode("donor@example.com")
	s.ErrorIs(err, ErrOTPResendTooSoon)

	_, err = s.svc.IssueCode(s.pending("donor@example.com"))
	s.ErrorIs(err, ErrOTPResendTooSoon)

	// Once the floor has passed, reissue replaces the code and resets
	// the attempt counter
	s.svc.mu.Lock()
	entry := s.svc.store["donor@example.com"]
	entry.IssuedAt = time.Now().Add(-2 * time.Minute)
	entry.Attempts = 3
	s.svc.mu.Unlock()

	code, err := s.svc.ReissueCode("donor@example.com")
	s.Require().NoError(err)
	s.Len(code, 6)

	s.svc.mu.RLock()
	s.Equal(0, s.svc.store["donor@example.com"].Attempts)
	s.svc.mu.RUnlock()
}

func (s *OTPSuite) TestReissueUnknownEmail() {
	_, err := s.svc.ReissueCode("nobody@example.com")
	s.ErrorIs(err, ErrOTPNotFound)
}

func TestOTPSuite(t *testing.T) {
	suite.Run(t, new(OTPSuite))
}
