package domain

import "time"

// Role is the ordered position of a user in the moderation hierarchy.
// Higher values carry strictly more privileges.
type Role int

const (
	RoleUser Role = iota + 1
	RoleModerator
	RoleAdmin
	RoleSystemAdmin
)

// roleVerboseNames maps each role to the human-readable label used in
// bulk user-creation payloads and API responses.
var roleVerboseNames = map[Role]string{
	RoleUser:        "user",
	RoleModerator:   "moderator",
	RoleAdmin:       "admin",
	RoleSystemAdmin: "system admin",
}

// Verbose returns the human-readable label for the role.
func (r Role) Verbose() string {
	return roleVerboseNames[r]
}

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	_, ok := roleVerboseNames[r]
	return ok
}

// IsAdmin reports whether the role sits strictly above moderator.
func (r Role) IsAdmin() bool {
	return r > RoleModerator
}

// IsModerator reports whether the role is exactly moderator.
func (r Role) IsModerator() bool {
	return r == RoleModerator
}

// RoleFromVerbose converts a verbose role name to its rank.
// It fails with ErrUnknownRole when the name matches none of the
// enumerated verbose names.
func RoleFromVerbose(name string) (Role, error) {
	for role, verbose := range roleVerboseNames {
		if name == verbose {
			return role, nil
		}
	}
	return 0, ErrUnknownRole
}

// AllowedProfileFields enumerates the only fields a user may change on
// their own profile.
var AllowedProfileFields = []string{"username", "first_name", "last_name", "bio", "email"}

// User represents a registered account.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user's role grants admin privileges.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}

// IsModerator reports whether the user is exactly a moderator.
func (u *User) IsModerator() bool {
	return u != nil && u.Role.IsModerator()
}
