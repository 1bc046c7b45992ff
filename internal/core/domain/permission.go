package domain

// Permission is a named capability checked against a role's permission set.
type Permission string

// Blood request management
const (
	PermBloodRequestCreate       Permission = "blood_request_create"
	PermBloodRequestUpdate       Permission = "blood_request_update"
	PermBloodRequestDelete       Permission = "blood_request_delete"
	PermBloodRequestViewAll      Permission = "blood_request_view_all"
	PermBloodRequestManageStatus Permission = "blood_request_manage_status"
)

// Donation management
const (
	PermDonationViewAll      Permission = "donation_view_all"
	PermDonationManage       Permission = "donation_manage"
	PermDonationApprove      Permission = "donation_approve"
	PermDonationUpdateStatus Permission = "donation_update_status"
)

// User management
const (
	PermUserViewAll     Permission = "user_view_all"
	PermUserCreate      Permission = "user_create"
	PermUserUpdate      Permission = "user_update"
	PermUserDelete      Permission = "user_delete"
	PermUserManageRoles Permission = "user_manage_roles"
)

// Blood type & compatibility
const (
	PermBloodTypeManage          Permission = "blood_type_manage"
	PermBloodCompatibilityManage Permission = "blood_compatibility_manage"
)

// Inventory
const (
	PermInventoryView   Permission = "inventory_view"
	PermInventoryUpdate Permission = "inventory_update"
)

// Reports, emergency, system
const (
	PermReportsView     Permission = "reports_view"
	PermAnalyticsView   Permission = "analytics_view"
	PermEmergencyManage Permission = "emergency_manage"
	PermSystemConfig    Permission = "system_config"
)

// allPermissions is the full token set. New tokens must be added here.
var allPermissions = []Permission{
	PermBloodRequestCreate,
	PermBloodRequestUpdate,
	PermBloodRequestDelete,
	PermBloodRequestViewAll,
	PermBloodRequestManageStatus,
	PermDonationViewAll,
	PermDonationManage,
	PermDonationApprove,
	PermDonationUpdateStatus,
	PermUserViewAll,
	PermUserCreate,
	PermUserUpdate,
	PermUserDelete,
	PermUserManageRoles,
	PermBloodTypeManage,
	PermBloodCompatibilityManage,
	PermInventoryView,
	PermInventoryUpdate,
	PermReportsView,
	PermAnalyticsView,
	PermEmergencyManage,
	PermSystemConfig,
}

// AllPermissions returns a copy of the full permission set.
func AllPermissions() []Permission {
	perms := make([]Permission, len(allPermissions))
	copy(perms, allPermissions)
	return perms
}

// rolePermissions maps each role to its permission set.
//
// Admin is intentionally the wildcard: it is granted the entire token set,
// including tokens added in the future. This is a deliberate superuser rule,
// not an enumeration that happens to be complete.
//
// Staff carries an explicit subset: request handling, donation workflow,
// limited user management (update/view only, no create/delete/role changes),
// blood type and compatibility data, inventory, emergencies and basic reports.
//
// Member has no back-office permissions; donation-history self access is
// handled by ownership checks, not tokens.
var rolePermissions = map[RoleID][]Permission{
	RoleAdmin: allPermissions,
	RoleStaff: {
		PermBloodRequestCreate,
		PermBloodRequestUpdate,
		PermBloodRequestViewAll,
		PermBloodRequestManageStatus,
		PermDonationViewAll,
		PermDonationManage,
		PermDonationApprove,
		PermDonationUpdateStatus,
		PermUserViewAll,
		PermUserUpdate,
		PermBloodTypeManage,
		PermBloodCompatibilityManage,
		PermInventoryView,
		PermInventoryUpdate,
		PermEmergencyManage,
		PermReportsView,
	},
	RoleMember: {},
}

// HasPermission reports whether the role holds the given permission.
// Unknown roles hold nothing.
func HasPermission(role RoleID, perm Permission) bool {
	if perm == "" {
		return false
	}
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of perms.
func HasAnyPermission(role RoleID, perms ...Permission) bool {
	for _, perm := range perms {
		if HasPermission(role, perm) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every one of perms.
// An empty perms list returns false rather than vacuous truth.
func HasAllPermissions(role RoleID, perms ...Permission) bool {
	if len(perms) == 0 {
		return false
	}
	for _, perm := range perms {
		if !HasPermission(role, perm) {
			return false
		}
	}
	return true
}

// CanManageBloodRequests reports whether the role can create, change or
// delete blood requests.
func CanManageBloodRequests(role RoleID) bool {
	return HasAnyPermission(role,
		PermBloodRequestCreate,
		PermBloodRequestUpdate,
		PermBloodRequestDelete,
		PermBloodRequestManageStatus,
	)
}

// CanManageDonations reports whether the role can run the donation workflow.
func CanManageDonations(role RoleID) bool {
	return HasAnyPermission(role,
		PermDonationManage,
		PermDonationApprove,
		PermDonationUpdateStatus,
	)
}

// CanViewReports reports whether the role can see reports or analytics.
func CanViewReports(role RoleID) bool {
	return HasAnyPermission(role, PermReportsView, PermAnalyticsView)
}

// CanManageUsers reports whether the role can manage user accounts.
// Staff can update users but cannot create, delete or change roles, so
// update alone does not count as managing.
func CanManageUsers(role RoleID) bool {
	return HasAnyPermission(role,
		PermUserCreate,
		PermUserDelete,
		PermUserManageRoles,
	)
}
