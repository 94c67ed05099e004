package domain

import (
	"errors"
	"testing"
)

func TestRolePrivileges(t *testing.T) {
	tests := []struct {
		role        Role
		verbose     string
		isAdmin     bool
		isModerator bool
	}{
		{RoleUser, "user", false, false},
		{RoleModerator, "moderator", false, true},
		{RoleAdmin, "admin", true, false},
		{RoleSystemAdmin, "system admin", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.verbose, func(t *testing.T) {
			if got := tt.role.Verbose(); got != tt.verbose {
				t.Fatalf("Verbose() = %q, want %q", got, tt.verbose)
			}
			if !tt.role.Valid() {
				t.Fatalf("Valid() = false for %v", tt.role)
			}
			if got := tt.role.IsAdmin(); got != tt.isAdmin {
				t.Fatalf("IsAdmin() = %v, want %v", got, tt.isAdmin)
			}
			if got := tt.role.IsModerator(); got != tt.isModerator {
				t.Fatalf("IsModerator() = %v, want %v", got, tt.isModerator)
			}
		})
	}

	if Role(0).Valid() || Role(5).Valid() {
		t.Fatalf("out-of-range roles must not be valid")
	}
}

func TestRoleFromVerbose(t *testing.T) {
	for role, verbose := range roleVerboseNames {
		got, err := RoleFromVerbose(verbose)
		if err != nil {
			t.Fatalf("RoleFromVerbose(%q) error = %v", verbose, err)
		}
		if got != role {
			t.Fatalf("RoleFromVerbose(%q) = %v, want %v", verbose, got, role)
		}
	}

	if _, err := RoleFromVerbose("superuser"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("RoleFromVerbose(superuser) error = %v, want ErrUnknownRole", err)
	}
	if _, err := RoleFromVerbose("Admin"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("verbose names are case-sensitive, got err = %v", err)
	}
}

func TestUserNilReceivers(t *testing.T) {
	var user *User
	if user.IsAdmin() {
		t.Fatalf("nil user must not be admin")
	}
	if user.IsModerator() {
		t.Fatalf("nil user must not be moderator")
	}
}
