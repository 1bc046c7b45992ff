package config

import (
	"log"
	"os"

	"hicode-bloodlink/internal/adapters/persistence/models"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedMasterData seeds roles, blood types, the compatibility matrix and a
// default admin account.
func SeedMasterData(db *gorm.DB) error {
	if err := seedRoles(db); err != nil {
		return err
	}
	if err := seedBloodTypes(db); err != nil {
		return err
	}
	if err := seedCompatibilityMatrix(db); err != nil {
		return err
	}
	if err := seedAdminUser(db); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

// seedRoles seeds the role table with fixed IDs matching domain.RoleID.
func seedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{ID: uint(domain.RoleGuest), Name: "Guest"},
		{ID: uint(domain.RoleMember), Name: "Member"},
		{ID: uint(domain.RoleStaff), Name: "Staff"},
		{ID: uint(domain.RoleAdmin), Name: "Admin"},
	}

	for _, role := range roles {
		var existing models.Role
		if err := db.Where("id = ?", role.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&role).Error; err != nil {
					return err
				}
				log.Printf("   Created role: %s", role.Name)
			}
		}
	}
	return nil
}

// seedBloodTypes seeds the eight ABO/Rh blood types.
func seedBloodTypes(db *gorm.DB) error {
	groups := []string{"A", "B", "AB", "O"}
	factors := []string{"+", "-"}

	for _, group := range groups {
		for _, rh := range factors {
			var existing models.BloodType
			err := db.Where("blood_group = ? AND rh_factor = ?", group, rh).First(&existing).Error
			if err == gorm.ErrRecordNotFound {
				bloodType := models.BloodType{
					BloodGroup:  group,
					RhFactor:    rh,
					Description: group + rh + " blood type",
				}
				if err := db.Create(&bloodType).Error; err != nil {
					return err
				}
				log.Printf("   Created blood type: %s%s", group, rh)
			} else if err != nil {
				return err
			}
		}
	}
	return nil
}

// wholeBloodDonors maps each recipient label to the labels that can donate
// whole blood to it.
var wholeBloodDonors = map[string][]string{
	"O-":  {"O-"},
	"O+":  {"O-", "O+"},
	"A-":  {"O-", "A-"},
	"A+":  {"O-", "O+", "A-", "A+"},
	"B-":  {"O-", "B-"},
	"B+":  {"O-", "O+", "B-", "B+"},
	"AB-": {"O-", "A-", "B-", "AB-"},
	"AB+": {"O-", "O+", "A-", "A+", "B-", "B+", "AB-", "AB+"},
}

// seedCompatibilityMatrix seeds whole-blood compatibility rules.
func seedCompatibilityMatrix(db *gorm.DB) error {
	var bloodTypes []models.BloodType
	if err := db.Find(&bloodTypes).Error; err != nil {
		return err
	}

	byLabel := make(map[string]uint, len(bloodTypes))
	for _, bt := range bloodTypes {
		byLabel[bt.BloodGroup+bt.RhFactor] = bt.ID
	}

	for recipient, donors := range wholeBloodDonors {
		recipientID, ok := byLabel[recipient]
		if !ok {
			continue
		}
		compatible := make(map[string]bool, len(donors))
		for _, donor := range donors {
			compatible[donor] = true
		}

		for label, donorID := range byLabel {
			var existing models.BloodCompatibility
			err := db.Where(
				"donor_type_id = ? AND recipient_type_id = ? AND component_type = ?",
				donorID, recipientID, models.ComponentWhole,
			).First(&existing).Error
			if err == gorm.ErrRecordNotFound {
				rule := models.BloodCompatibility{
					DonorTypeID:     donorID,
					RecipientTypeID: recipientID,
					ComponentType:   models.ComponentWhole,
					IsCompatible:    compatible[label],
				}
				if err := db.Create(&rule).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAdminUser seeds a default admin account.
// This is for development/testing only; in production create admins
// through a secure process.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role_id = ?", uint(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ChangeMe123!"
	}

	hashed, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:      "admin@bloodlink.local",
		Email:         "admin@bloodlink.local",
		PasswordHash:  hashed,
		FullName:      "System Administrator",
		RoleID:        uint(domain.RoleAdmin),
		Status:        models.UserStatusActive,
		EmailVerified: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("   Created default admin: %s", admin.Email)
	return nil
}
