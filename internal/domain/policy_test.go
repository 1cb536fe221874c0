package domain

import "testing"

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		role   Role
		status UserStatus
		want   bool
	}{
		{"active student can read notices", ActionReadNotices, RoleStudent, StatusActive, true},
		{"invited student cannot read notices", ActionReadNotices, RoleStudent, StatusInvited, false},
		{"inactive admin cannot read notices", ActionReadNotices, RoleAdmin, StatusInactive, false},

		{"active admin can create notice", ActionCreateNotice, RoleAdmin, StatusActive, true},
		{"active super admin can create notice", ActionCreateNotice, RoleSuperAdmin, StatusActive, true},
		{"active student cannot create notice", ActionCreateNotice, RoleStudent, StatusActive, false},
		{"invited admin cannot create notice", ActionCreateNotice, RoleAdmin, StatusInvited, false},

		{"active admin can delete notice", ActionDeleteNotice, RoleAdmin, StatusActive, true},
		{"active student cannot delete notice", ActionDeleteNotice, RoleStudent, StatusActive, false},

		{"active admin can invite", ActionInviteUser, RoleAdmin, StatusActive, true},
		{"inactive admin cannot invite", ActionInviteUser, RoleAdmin, StatusInactive, false},
		{"active student cannot invite", ActionInviteUser, RoleStudent, StatusActive, false},

		{"active admin can list users", ActionListUsers, RoleAdmin, StatusActive, true},
		{"active student cannot list users", ActionListUsers, RoleStudent, StatusActive, false},
		{"active admin can change role", ActionChangeUserRole, RoleSuperAdmin, StatusActive, true},
		{"active student cannot delete user", ActionDeleteUser, RoleStudent, StatusActive, false},

		{"invited student can onboard", ActionOnboard, RoleStudent, StatusInvited, true},
		{"invited admin can onboard", ActionOnboard, RoleAdmin, StatusInvited, true},
		{"active student can re-onboard", ActionOnboard, RoleStudent, StatusActive, true},
		{"inactive student cannot onboard", ActionOnboard, RoleStudent, StatusInactive, false},

		{"active admin can presign", ActionCreatePresignedURL, RoleAdmin, StatusActive, true},
		{"active student cannot presign", ActionCreatePresignedURL, RoleStudent, StatusActive, false},

		{"unknown action is denied", Action("unknown"), RoleSuperAdmin, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.action, tt.role, tt.status); got != tt.want {
				t.Fatalf("Allowed(%q, %q, %q) = %v, want %v", tt.action, tt.role, tt.status, got, tt.want)
			}
		})
	}
}

func TestIsAdminTier(t *testing.T) {
	if RoleStudent.IsAdminTier() {
		t.Fatal("student should not be admin tier")
	}
	if !RoleAdmin.IsAdminTier() {
		t.Fatal("admin should be admin tier")
	}
	if !RoleSuperAdmin.IsAdminTier() {
		t.Fatal("super admin should be admin tier")
	}
}
