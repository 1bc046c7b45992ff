package services

import (
	"context"
	"errors"
	"log"
	"time"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/pkg/password"

	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrSelfRoleChange   = errors.New("cannot change your own role")
	ErrSelfDelete       = errors.New("cannot delete your own account")
	ErrLastAdmin        = errors.New("cannot demote the last administrator")
	ErrInvalidUserState = errors.New("invalid user status")
)

// UserService handles user management business logic
type UserService struct {
	userRepo      repositories.UserRepository
	bloodTypeRepo repositories.BloodTypeRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, bloodTypeRepo repositories.BloodTypeRepository) *UserService {
	return &UserService{userRepo: userRepo, bloodTypeRepo: bloodTypeRepo}
}

// UpdateProfileInput represents self-service profile update input
type UpdateProfileInput struct {
	FullName    *string    `json:"full_name"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Address     *string    `json:"address"`
	BloodTypeID *uint      `json:"blood_type_id"`
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AdminUpdateUserInput represents staff/admin user update input
type AdminUpdateUserInput struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	BloodTypeID *uint   `json:"blood_type_id"`
	Status      *string `json:"status"`
	RoleID      *int    `json:"role_id"`
}

// AdminCreateUserInput represents admin-created account input
type AdminCreateUserInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone"`
	RoleID      int    `json:"role_id"`
	BloodTypeID *uint  `json:"blood_type_id"`
}

// CreateUser creates an account directly, bypassing the OTP flow. Used by
// admins to provision staff accounts.
func (s *UserService) CreateUser(ctx context.Context, input *AdminCreateUserInput) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailInUse
	}

	role := domain.ParseRole(input.RoleID)
	if !role.IsValid() || role == domain.RoleGuest {
		return nil, ErrInvalidRole
	}

	if input.BloodTypeID != nil {
		if _, err := s.bloodTypeRepo.GetByID(ctx, *input.BloodTypeID); err != nil {
			return nil, ErrUnknownBloodType
		}
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:        input.Email,
		Email:           input.Email,
		PasswordHash:    hashed,
		FullName:        input.FullName,
		Phone:           input.Phone,
		RoleID:          uint(role),
		BloodTypeID:     input.BloodTypeID,
		Status:          models.UserStatusActive,
		EmailVerified:   true,
		IsReadyToDonate: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created by admin: %s (role %s)", user.Email, role.DisplayName())
	return user, nil
}

// ListReadyDonors lists donors currently eligible to donate, optionally
// narrowed to one blood type.
func (s *UserService) ListReadyDonors(ctx context.Context, bloodTypeID *uint) ([]*models.User, error) {
	return s.userRepo.ListReadyDonors(ctx, bloodTypeID)
}

// GetUser fetches one user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists users with optional search and role filter, paginated
func (s *UserService) ListUsers(ctx context.Context, search string, roleID *uint, offset, limit int, order string) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, search, roleID, offset, limit, order)
}

// UpdateProfile applies a member's own profile changes. Only provided
// fields are touched.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.BloodTypeID != nil {
		if _, err := s.bloodTypeRepo.GetByID(ctx, *input.BloodTypeID); err != nil {
			return nil, ErrUnknownBloodType
		}
		user.BloodTypeID = input.BloodTypeID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(input.CurrentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user ID: %d", userID)
	return nil
}

// AdminUpdateUser applies staff/admin changes to another account. Role
// changes need the role-management permission, self role changes are
// refused, and the last admin cannot be demoted.
func (s *UserService) AdminUpdateUser(ctx context.Context, actorID uint, actorRole domain.RoleID, targetID uint, input *AdminUpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.BloodTypeID != nil {
		if _, err := s.bloodTypeRepo.GetByID(ctx, *input.BloodTypeID); err != nil {
			return nil, ErrUnknownBloodType
		}
		user.BloodTypeID = input.BloodTypeID
	}

	if input.Status != nil {
		switch *input.Status {
		case models.UserStatusActive, models.UserStatusSuspended, models.UserStatusBanned:
			user.Status = *input.Status
		default:
			return nil, ErrInvalidUserState
		}
	}

	if input.RoleID != nil {
		if !domain.HasPermission(actorRole, domain.PermUserManageRoles) {
			return nil, domain.ErrForbidden
		}
		if actorID == targetID {
			return nil, ErrSelfRoleChange
		}
		newRole := domain.ParseRole(*input.RoleID)
		if !newRole.IsValid() || newRole == domain.RoleGuest {
			return nil, ErrInvalidRole
		}
		if domain.RoleID(user.RoleID) == domain.RoleAdmin && newRole != domain.RoleAdmin {
			admins, err := s.userRepo.CountByRole(ctx, uint(domain.RoleAdmin))
			if err != nil {
				return nil, err
			}
			if admins <= 1 {
				return nil, ErrLastAdmin
			}
		}
		user.RoleID = uint(newRole)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User #%d updated by #%d", targetID, actorID)
	return user, nil
}

// DeleteUser soft-deletes an account
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	user, err := s.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	if domain.RoleID(user.RoleID) == domain.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, uint(domain.RoleAdmin))
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	log.Printf("✅ User #%d deleted by #%d", targetID, actorID)
	return nil
}
