package domain

import "strings"

// RoleID identifies a user role. Role records are seeded with fixed IDs,
// so the codes below must match the roles table.
type RoleID int

const (
	RoleUnknown RoleID = 0
	RoleGuest   RoleID = 1
	RoleMember  RoleID = 2
	RoleStaff   RoleID = 3
	RoleAdmin   RoleID = 4
)

// roleNames maps role codes to display names
var roleNames = map[RoleID]string{
	RoleGuest:  "Guest",
	RoleMember: "Member",
	RoleStaff:  "Staff",
	RoleAdmin:  "Admin",
}

// legacyRoleAliases maps role name strings that older clients and older
// token payloads still send. Kept as a single table so the compatibility
// surface is visible in one place.
var legacyRoleAliases = map[string]RoleID{
	"admin":  RoleAdmin,
	"staff":  RoleStaff,
	"member": RoleMember,
	"user":   RoleMember,
	"donor":  RoleMember,
	"guest":  RoleGuest,
}

// ParseRole normalizes a role code into a RoleID.
// Unknown codes map to RoleUnknown.
func ParseRole(code int) RoleID {
	role := RoleID(code)
	if _, ok := roleNames[role]; ok {
		return role
	}
	return RoleUnknown
}

// ParseRoleName normalizes a legacy role name string into a RoleID.
// Matching is case-insensitive; unknown names map to RoleUnknown.
func ParseRoleName(name string) RoleID {
	if role, ok := legacyRoleAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return role
	}
	return RoleUnknown
}

// DisplayName returns the human-readable role name.
// Unknown roles fall back to "Member".
func (r RoleID) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Member"
}

// IsValid reports whether the role is one of the seeded roles.
func (r RoleID) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// IsAdmin reports whether the role is Admin.
func IsAdmin(role RoleID) bool {
	return role == RoleAdmin
}

// IsStaff reports whether the role is Staff.
func IsStaff(role RoleID) bool {
	return role == RoleStaff
}

// IsStaffOrAdmin reports whether the role is Staff or Admin.
func IsStaffOrAdmin(role RoleID) bool {
	return role == RoleStaff || role == RoleAdmin
}

// IsDonor reports whether the role is a donating member.
func IsDonor(role RoleID) bool {
	return role == RoleMember
}

// IsUser reports whether the role is a regular member account.
func IsUser(role RoleID) bool {
	return role == RoleMember
}
