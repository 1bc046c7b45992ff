package models

import (
	"time"

	"gorm.io/gorm"

	"hicode-bloodlink/internal/core/domain"
)

// ============================================================
// Auth & User Tables
// ============================================================

// Role represents roles table. Rows are seeded with fixed IDs so that
// domain.RoleID codes stay stable.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// User represents users table
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Username         string         `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email            string         `gorm:"uniqueIndex;size:150;not null" json:"email"`
	PasswordHash     string         `gorm:"size:255;not null" json:"-"`
	FullName         string         `gorm:"size:150;not null" json:"full_name"`
	Phone            string         `gorm:"size:20" json:"phone"`
	DateOfBirth      *time.Time     `json:"date_of_birth"`
	Gender           string         `gorm:"size:10" json:"gender"`
	Address          string         `gorm:"type:text" json:"address"`
	BloodTypeID      *uint          `gorm:"index" json:"blood_type_id"`
	LastDonationDate *time.Time     `json:"last_donation_date"`
	IsReadyToDonate  bool           `gorm:"default:true" json:"is_ready_to_donate"`
	RoleID           uint           `gorm:"not null;default:2" json:"role_id"`
	Status           string         `gorm:"size:20;default:'ACTIVE'" json:"status"`
	EmailVerified    bool           `gorm:"default:false" json:"email_verified"`
	ResetTokenHash   *string        `gorm:"size:255;index" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Role      *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	BloodType *BloodType `gorm:"foreignKey:BloodTypeID" json:"blood_type,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// User account statuses
const (
	UserStatusActive    = "ACTIVE"
	UserStatusSuspended = "SUSPENDED"
	UserStatusBanned    = "BANNED"
)

// UserResponse DTO
type UserResponse struct {
	ID               uint       `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	Phone            string     `json:"phone,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	Address          string     `json:"address,omitempty"`
	BloodType        string     `json:"blood_type,omitempty"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	IsReadyToDonate  bool       `json:"is_ready_to_donate"`
	RoleID           uint       `json:"role_id"`
	RoleName         string     `json:"role_name"`
	Status           string     `json:"status"`
	EmailVerified    bool       `json:"email_verified"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FullName:         u.FullName,
		Phone:            u.Phone,
		DateOfBirth:      u.DateOfBirth,
		Gender:           u.Gender,
		Address:          u.Address,
		LastDonationDate: u.LastDonationDate,
		IsReadyToDonate:  u.IsReadyToDonate,
		RoleID:           u.RoleID,
		RoleName:         domain.ParseRole(int(u.RoleID)).DisplayName(),
		Status:           u.Status,
		EmailVerified:    u.EmailVerified,
		CreatedAt:        u.CreatedAt,
	}
	if u.BloodType != nil {
		resp.BloodType = u.BloodType.Label()
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Blood Type Master Tables
// ============================================================

// BloodType represents blood_types table (Master)
type BloodType struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BloodGroup  string         `gorm:"size:3;not null;uniqueIndex:idx_group_rh" json:"blood_group"`
	RhFactor    string         `gorm:"size:1;not null;uniqueIndex:idx_group_rh" json:"rh_factor"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BloodType) TableName() string {
	return "blood_types"
}

// Label returns the display form, e.g. "O-" or "AB+".
func (bt *BloodType) Label() string {
	return bt.BloodGroup + bt.RhFactor
}

// BloodCompatibility represents blood_compatibilities table (Master)
type BloodCompatibility struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	DonorTypeID     uint   `gorm:"not null;index;uniqueIndex:idx_pair_component" json:"donor_type_id"`
	RecipientTypeID uint   `gorm:"not null;index;uniqueIndex:idx_pair_component" json:"recipient_type_id"`
	ComponentType   string `gorm:"size:20;not null;uniqueIndex:idx_pair_component" json:"component_type"`
	IsCompatible    bool   `gorm:"not null" json:"is_compatible"`

	DonorType     *BloodType `gorm:"foreignKey:DonorTypeID" json:"donor_type,omitempty"`
	RecipientType *BloodType `gorm:"foreignKey:RecipientTypeID" json:"recipient_type,omitempty"`
}

func (BloodCompatibility) TableName() string {
	return "blood_compatibilities"
}

// Blood component types
const (
	ComponentWhole     = "WHOLE"
	ComponentRedCells  = "RED_CELLS"
	ComponentPlasma    = "PLASMA"
	ComponentPlatelets = "PLATELETS"
)

// ============================================================
// Donation Process Tables
// ============================================================

// DonationProcess represents donation_processes table
type DonationProcess struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	DonorID           uint           `gorm:"not null;index" json:"donor_id"`
	Status            string         `gorm:"size:30;not null;index" json:"status"`
	DonationType      string         `gorm:"size:30;not null;default:'STANDARD'" json:"donation_type"`
	Note              string         `gorm:"size:255" json:"note"`
	CollectedVolumeML *int           `json:"collected_volume_ml"`
	CertificateURL    *string        `gorm:"size:255" json:"certificate_url"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Donor       *User                `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Appointment *DonationAppointment `gorm:"foreignKey:ProcessID" json:"appointment,omitempty"`
	HealthCheck *HealthCheck         `gorm:"foreignKey:ProcessID" json:"health_check,omitempty"`
}

func (DonationProcess) TableName() string {
	return "donation_processes"
}

// DonationAppointment represents donation_appointments table
type DonationAppointment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProcessID       uint      `gorm:"uniqueIndex;not null" json:"process_id"`
	AppointmentDate time.Time `gorm:"not null;index" json:"appointment_date"`
	Location        string    `gorm:"size:255;not null" json:"location"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DonationAppointment) TableName() string {
	return "donation_appointments"
}

// HealthCheck represents health_checks table
type HealthCheck struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProcessID       uint      `gorm:"uniqueIndex;not null" json:"process_id"`
	IsEligible      bool      `gorm:"not null" json:"is_eligible"`
	BloodPressure   string    `gorm:"size:20" json:"blood_pressure"`
	HeartRate       *int      `json:"heart_rate"`
	Temperature     *float64  `gorm:"type:decimal(4,1)" json:"temperature"`
	Weight          *float64  `gorm:"type:decimal(5,2)" json:"weight"`
	HemoglobinLevel *float64  `gorm:"type:decimal(4,1)" json:"hemoglobin_level"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (HealthCheck) TableName() string {
	return "health_checks"
}

// DonationProcessResponse DTO
type DonationProcessResponse struct {
	ID                uint                 `json:"id"`
	DonorID           uint                 `json:"donor_id"`
	DonorName         string               `json:"donor_name,omitempty"`
	DonorBloodType    string               `json:"donor_blood_type,omitempty"`
	Status            string               `json:"status"`
	DonationType      string               `json:"donation_type"`
	Note              string               `json:"note,omitempty"`
	CollectedVolumeML *int                 `json:"collected_volume_ml,omitempty"`
	CertificateURL    *string              `json:"certificate_url,omitempty"`
	Appointment       *DonationAppointment `json:"appointment,omitempty"`
	HealthCheck       *HealthCheck         `json:"health_check,omitempty"`
	AllowedActions    []string             `json:"allowed_actions"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func (p *DonationProcess) ToResponse() *DonationProcessResponse {
	resp := &DonationProcessResponse{
		ID:                p.ID,
		DonorID:           p.DonorID,
		Status:            p.Status,
		DonationType:      p.DonationType,
		Note:              p.Note,
		CollectedVolumeML: p.CollectedVolumeML,
		CertificateURL:    p.CertificateURL,
		Appointment:       p.Appointment,
		HealthCheck:       p.HealthCheck,
		AllowedActions:    []string{},
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	for _, t := range domain.DonationTransitions(domain.DonationStatus(p.Status)) {
		resp.AllowedActions = append(resp.AllowedActions, t.Action)
	}
	if p.Donor != nil {
		resp.DonorName = p.Donor.FullName
		if p.Donor.BloodType != nil {
			resp.DonorBloodType = p.Donor.BloodType.Label()
		}
	}
	return resp
}

// ============================================================
// Inventory Tables
// ============================================================

// BloodUnit represents blood_units table (inventory)
type BloodUnit struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProcessID   uint           `gorm:"uniqueIndex;not null" json:"process_id"`
	BloodTypeID uint           `gorm:"not null;index" json:"blood_type_id"`
	UnitCode    string         `gorm:"size:50;uniqueIndex;not null" json:"unit_code"`
	VolumeML    int            `gorm:"not null" json:"volume_ml"`
	CollectedAt time.Time      `gorm:"not null" json:"collected_at"`
	ExpiresAt   time.Time      `gorm:"not null;index" json:"expires_at"`
	Status      string         `gorm:"size:20;not null;default:'AVAILABLE';index" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	BloodType *BloodType `gorm:"foreignKey:BloodTypeID" json:"blood_type,omitempty"`
}

func (BloodUnit) TableName() string {
	return "blood_units"
}

// Blood unit statuses
const (
	UnitStatusAvailable = "AVAILABLE"
	UnitStatusUsed      = "USED"
	UnitStatusExpired   = "EXPIRED"
	UnitStatusDiscarded = "DISCARDED"
)

// ============================================================
// Emergency Request Tables
// ============================================================

// BloodRequest represents blood_requests table
type BloodRequest struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PatientName     string         `gorm:"size:255;not null" json:"patient_name"`
	Hospital        string         `gorm:"size:255;not null" json:"hospital"`
	BloodTypeID     uint           `gorm:"not null;index" json:"blood_type_id"`
	QuantityInUnits int            `gorm:"not null" json:"quantity_in_units"`
	Urgency         string         `gorm:"size:20;not null" json:"urgency"`
	Status          string         `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	RoomNumber      *int           `json:"room_number"`
	BedNumber       *int           `json:"bed_number"`
	CreatedByID     uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	BloodType *BloodType       `gorm:"foreignKey:BloodTypeID" json:"blood_type,omitempty"`
	CreatedBy *User            `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Pledges   []DonationPledge `gorm:"foreignKey:BloodRequestID" json:"pledges,omitempty"`
}

func (BloodRequest) TableName() string {
	return "blood_requests"
}

// Urgency levels
const (
	UrgencyNormal   = "NORMAL"
	UrgencyUrgent   = "URGENT"
	UrgencyCritical = "CRITICAL"
)

// DonationPledge represents donation_pledges table
type DonationPledge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DonorID        uint      `gorm:"not null;uniqueIndex:idx_donor_request" json:"donor_id"`
	BloodRequestID uint      `gorm:"not null;uniqueIndex:idx_donor_request;index" json:"blood_request_id"`
	ProcessID      uint      `gorm:"not null;index" json:"process_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Donor *User `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
}

func (DonationPledge) TableName() string {
	return "donation_pledges"
}

// PledgeResponse is the public shape of a pledge. It carries the donor's
// display name only; request detail is readable without a login, so the
// donor's contact details must never ride along.
type PledgeResponse struct {
	ID        uint      `json:"id"`
	DonorName string    `json:"donor_name"`
	ProcessID uint      `json:"process_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *DonationPledge) ToResponse() *PledgeResponse {
	resp := &PledgeResponse{
		ID:        p.ID,
		ProcessID: p.ProcessID,
		CreatedAt: p.CreatedAt,
	}
	if p.Donor != nil {
		resp.DonorName = p.Donor.FullName
	}
	return resp
}

// BloodRequestResponse DTO
type BloodRequestResponse struct {
	ID              uint              `json:"id"`
	PatientName     string            `json:"patient_name"`
	Hospital        string            `json:"hospital"`
	BloodType       string            `json:"blood_type"`
	BloodTypeID     uint              `json:"blood_type_id"`
	QuantityInUnits int               `json:"quantity_in_units"`
	Urgency         string            `json:"urgency"`
	Status          string            `json:"status"`
	StatusText      string            `json:"status_text"`
	RoomNumber      *int              `json:"room_number,omitempty"`
	BedNumber       *int              `json:"bed_number,omitempty"`
	PledgeCount     int               `json:"pledge_count"`
	ReadyToFulfill  bool              `json:"ready_to_fulfill"`
	CreatedByName   string            `json:"created_by_name,omitempty"`
	Pledges         []*PledgeResponse `json:"pledges,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (r *BloodRequest) ToResponse() *BloodRequestResponse {
	status := domain.RequestStatus(r.Status)
	resp := &BloodRequestResponse{
		ID:              r.ID,
		PatientName:     r.PatientName,
		Hospital:        r.Hospital,
		BloodTypeID:     r.BloodTypeID,
		QuantityInUnits: r.QuantityInUnits,
		Urgency:         r.Urgency,
		Status:          r.Status,
		StatusText:      domain.RequestStatusText(status),
		RoomNumber:      r.RoomNumber,
		BedNumber:       r.BedNumber,
		PledgeCount:     len(r.Pledges),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for i := range r.Pledges {
		resp.Pledges = append(resp.Pledges, r.Pledges[i].ToResponse())
	}
	resp.ReadyToFulfill = domain.ReadyToFulfill(status, resp.PledgeCount, r.QuantityInUnits)
	if r.BloodType != nil {
		resp.BloodType = r.BloodType.Label()
	}
	if r.CreatedBy != nil {
		resp.CreatedByName = r.CreatedBy.FullName
	}
	return resp
}

// ============================================================
// Blog Tables
// ============================================================

// BlogPost represents blog_posts table
type BlogPost struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Content     string         `gorm:"type:longtext;not null" json:"content"`
	ImageURL    string         `gorm:"size:255" json:"image_url"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Status      string         `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// Blog post statuses
const (
	BlogStatusDraft     = "DRAFT"
	BlogStatusPublished = "PUBLISHED"
	BlogStatusArchived  = "ARCHIVED"
)

// AutoMigrate migrates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&RefreshToken{},
		&BloodType{},
		&BloodCompatibility{},
		&DonationProcess{},
		&DonationAppointment{},
		&HealthCheck{},
		&BloodUnit{},
		&BloodRequest{},
		&DonationPledge{},
		&BlogPost{},
	)
}
