package services

import (
	"context"
	"errors"
	"log"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/config"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/pkg/jwt"
	"hicode-bloodlink/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email is already in use")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is not active")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid or expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	otpService       *OTPService
	notifyService    *NotificationService
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	otpService *OTPService,
	notifyService *NotificationService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		otpService:       otpService,
		notifyService:    notifyService,
		cfg:              cfg,
	}
}

// RegisterInput represents the first registration step
type RegisterInput struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=8"`
	FullName    string     `json:"full_name" validate:"required"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Address     string     `json:"address"`
	BloodTypeID *uint      `json:"blood_type_id"`
}

// VerifyInput completes registration with the emailed code
type VerifyInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response.
// LegacyToken duplicates AccessToken under the older "token" field name
// that earlier API versions used; clients may read either.
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	LegacyToken  string               `json:"token"`
	RefreshToken string               `json:"refresh_token"`
}

// RequestRegistration starts the two-step registration: the payload is
// validated, the password hashed, and an OTP issued. No account is created
// until the code is verified.
func (s *AuthService) RequestRegistration(ctx context.Context, input *RegisterInput) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailInUse
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return err
	}

	code, err := s.otpService.IssueCode(&PendingRegistration{
		Email:        input.Email,
		PasswordHash: hashed,
		FullName:     input.FullName,
		Phone:        input.Phone,
		DateOfBirth:  input.DateOfBirth,
		Gender:       input.Gender,
		Address:      input.Address,
		BloodTypeID:  input.BloodTypeID,
	})
	if err != nil {
		return err
	}

	s.notifyService.SendRegistrationOTP(input.Email, code)
	log.Printf("✅ Registration OTP issued for %s", input.Email)
	return nil
}

// VerifyAndRegister finishes registration after the OTP check. It does not
// log the new account in.
func (s *AuthService) VerifyAndRegister(ctx context.Context, input *VerifyInput) (*models.UserResponse, error) {
	reg, err := s.otpService.Verify(input.Email, input.OTP)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:      reg.Email,
		Email:         reg.Email,
		PasswordHash:  reg.PasswordHash,
		FullName:      reg.FullName,
		Phone:         reg.Phone,
		DateOfBirth:   reg.DateOfBirth,
		Gender:        reg.Gender,
		Address:       reg.Address,
		BloodTypeID:   reg.BloodTypeID,
		RoleID:        uint(domain.RoleMember),
		Status:        models.UserStatusActive,
		EmailVerified: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Email)
	return user.ToResponse(), nil
}

// ResendOTP reissues the code for a pending registration
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	code, err := s.otpService.ReissueCode(email)
	if err != nil {
		return err
	}

	s.notifyService.SendRegistrationOTP(email, code)
	return nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrUserInactive
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		LegacyToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken refreshes the access token using refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrUserInactive
	}

	// Revoke old refresh token (token rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		LegacyToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)

	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// ForgotPassword issues a reset token and delivers it out of band.
// It succeeds silently for unknown emails to avoid account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.New().String()
	tokenHash := password.HashToken(token)
	expiry := time.Now().Add(time.Duration(s.cfg.JWT.ResetTokenMins) * time.Minute)

	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.notifyService.SendPasswordReset(user.Email, token)
	log.Printf("✅ Password reset token issued for user ID: %d", user.ID)
	return nil
}

// ValidateResetToken checks that a reset token is known and unexpired
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByResetTokenHash(ctx, password.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrResetTokenInvalid
	}
	return nil
}

// ResetPassword sets a new password against a valid reset token and revokes
// every open session.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByResetTokenHash(ctx, password.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrResetTokenInvalid
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.ResetTokenHash = nil
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("✅ Password reset for user ID: %d", user.ID)
	return nil
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.FullName,
		int(user.RoleID),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	// Generate unique token ID
	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	expiresAt := jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays)

	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
