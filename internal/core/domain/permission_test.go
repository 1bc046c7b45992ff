package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PermissionSuite struct {
	suite.Suite
}

func TestPermissionSuite(t *testing.T) {
	suite.Run(t, new(PermissionSuite))
}

func (s *PermissionSuite) TestUnknownRolesHoldNothing() {
	unknownRoles := []RoleID{RoleUnknown, RoleID(-1), RoleID(5), RoleID(99)}

	for _, role := range unknownRoles {
		s.False(HasPermission(role, PermUserCreate))
		s.False(HasAnyPermission(role, AllPermissions()...))
		s.False(IsAdmin(role))
		s.False(IsStaff(role))
		s.False(IsStaffOrAdmin(role))
		s.Equal("Member", role.DisplayName())
	}
}

func (s *PermissionSuite) TestAdminWildcard() {
	s.Run("admin holds every token", func() {
		for _, perm := range AllPermissions() {
			s.True(HasPermission(RoleAdmin, perm), "admin should hold %s", perm)
		}
	})

	s.Run("admin holds any subset", func() {
		s.True(HasAllPermissions(RoleAdmin, AllPermissions()...))
		s.True(HasAllPermissions(RoleAdmin, PermSystemConfig))
		s.True(HasAllPermissions(RoleAdmin, PermUserDelete, PermAnalyticsView, PermBloodRequestDelete))
	})
}

func (s *PermissionSuite) TestStaffSubset() {
	s.Run("staff workflow permissions", func() {
		s.True(HasPermission(RoleStaff, PermDonationApprove))
		s.True(HasPermission(RoleStaff, PermBloodRequestManageStatus))
		s.True(HasPermission(RoleStaff, PermInventoryUpdate))
		s.True(HasPermission(RoleStaff, PermEmergencyManage))
		s.True(HasPermission(RoleStaff, PermUserUpdate))
	})

	s.Run("staff exclusions", func() {
		s.False(HasPermission(RoleStaff, PermUserCreate))
		s.False(HasPermission(RoleStaff, PermUserDelete))
		s.False(HasPermission(RoleStaff, PermUserManageRoles))
		s.False(HasPermission(RoleStaff, PermBloodRequestDelete))
		s.False(HasPermission(RoleStaff, PermAnalyticsView))
		s.False(HasPermission(RoleStaff, PermSystemConfig))
	})

	s.Run("aggregate checks", func() {
		s.True(CanManageDonations(RoleStaff))
		s.True(CanManageBloodRequests(RoleStaff))
		s.True(CanViewReports(RoleStaff))
		// Update-only access does not count as managing users.
		s.False(CanManageUsers(RoleStaff))
		s.True(CanManageUsers(RoleAdmin))
	})
}

func (s *PermissionSuite) TestMemberHasNoBackOfficeAccess() {
	s.False(CanManageBloodRequests(RoleMember))
	s.False(CanManageDonations(RoleMember))
	s.False(CanViewReports(RoleMember))
	s.False(CanManageUsers(RoleMember))
	s.False(HasAnyPermission(RoleMember, AllPermissions()...))
}

func (s *PermissionSuite) TestEdgeInputs() {
	s.False(HasPermission(RoleAdmin, ""))
	s.False(HasAnyPermission(RoleAdmin))
	s.False(HasAllPermissions(RoleAdmin))
	s.False(HasAllPermissions(RoleStaff, PermDonationManage, PermUserDelete))
}

type RoleSuite struct {
	suite.Suite
}

func TestRoleSuite(t *testing.T) {
	suite.Run(t, new(RoleSuite))
}

func (s *RoleSuite) TestParseRole() {
	s.Equal(RoleMember, ParseRole(2))
	s.Equal(RoleStaff, ParseRole(3))
	s.Equal(RoleAdmin, ParseRole(4))
	s.Equal(RoleGuest, ParseRole(1))
	s.Equal(RoleUnknown, ParseRole(0))
	s.Equal(RoleUnknown, ParseRole(7))
	s.Equal(RoleUnknown, ParseRole(-3))
}

func (s *RoleSuite) TestParseRoleNameAliases() {
	cases := map[string]RoleID{
		"Admin":   RoleAdmin,
		"ADMIN":   RoleAdmin,
		"staff":   RoleStaff,
		"Member":  RoleMember,
		"user":    RoleMember,
		"Donor":   RoleMember,
		" admin ": RoleAdmin,
		"":        RoleUnknown,
		"root":    RoleUnknown,
	}
	for name, want := range cases {
		s.Equal(want, ParseRoleName(name), "alias %q", name)
	}
}

func (s *RoleSuite) TestDisplayName() {
	s.Equal("Admin", RoleAdmin.DisplayName())
	s.Equal("Staff", RoleStaff.DisplayName())
	s.Equal("Member", RoleMember.DisplayName())
	s.Equal("Member", RoleUnknown.DisplayName())
	s.Equal("Member", RoleID(42).DisplayName())
}
