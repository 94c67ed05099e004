package permission

import (
	"testing"

	"github.com/senyehor/yamdb/internal/domain"
)

var (
	anonymous *domain.User
	regular   = &domain.User{ID: "u1", Role: domain.RoleUser}
	moderator = &domain.User{ID: "m1", Role: domain.RoleModerator}
	admin     = &domain.User{ID: "a1", Role: domain.RoleAdmin}
	sysAdmin  = &domain.User{ID: "s1", Role: domain.RoleSystemAdmin}
)

func TestActionSafe(t *testing.T) {
	safe := map[Action]bool{
		ActionList:     true,
		ActionRetrieve: true,
		ActionCreate:   false,
		ActionUpdate:   false,
		ActionDelete:   false,
	}
	for action, want := range safe {
		if got := action.Safe(); got != want {
			t.Fatalf("Action(%d).Safe() = %v, want %v", action, got, want)
		}
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name  string
		actor *domain.User
		want  bool
	}{
		{"anonymous", anonymous, false},
		{"regular", regular, false},
		{"moderator", moderator, false},
		{"admin", admin, true},
		{"system admin", sysAdmin, true},
	}

	policy := AdminOnly{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Allow(tt.actor, ActionList); got != tt.want {
				t.Fatalf("Allow(list) = %v, want %v", got, tt.want)
			}
			if got := policy.AllowObject(tt.actor, ActionDelete, "someone"); got != tt.want {
				t.Fatalf("AllowObject(delete) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminOrReadOnly(t *testing.T) {
	policy := AdminOrReadOnly{}

	for _, actor := range []*domain.User{anonymous, regular, moderator, admin} {
		if !policy.Allow(actor, ActionList) {
			t.Fatalf("safe action must be open to everyone, denied for %+v", actor)
		}
	}

	tests := []struct {
		name  string
		actor *domain.User
		want  bool
	}{
		{"anonymous", anonymous, false},
		{"regular", regular, false},
		{"moderator", moderator, false},
		{"admin", admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Allow(tt.actor, ActionCreate); got != tt.want {
				t.Fatalf("Allow(create) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminOrModeratorOrAuthorOrReadOnly(t *testing.T) {
	policy := AdminOrModeratorOrAuthorOrReadOnly{}
	const authorID = "u1"

	if !policy.AllowObject(anonymous, ActionRetrieve, authorID) {
		t.Fatalf("safe object access must be open to anonymous actors")
	}
	if policy.Allow(anonymous, ActionCreate) {
		t.Fatalf("anonymous actors must not create")
	}
	if !policy.Allow(regular, ActionCreate) {
		t.Fatalf("authenticated actors may create")
	}

	tests := []struct {
		name  string
		actor *domain.User
		want  bool
	}{
		{"anonymous", anonymous, false},
		{"author", regular, true},
		{"other user", &domain.User{ID: "u2", Role: domain.RoleUser}, false},
		{"moderator", moderator, true},
		{"admin", admin, true},
		{"system admin", sysAdmin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.AllowObject(tt.actor, ActionUpdate, authorID); got != tt.want {
				t.Fatalf("AllowObject(update) = %v, want %v", got, tt.want)
			}
			if got := policy.AllowObject(tt.actor, ActionDelete, authorID); got != tt.want {
				t.Fatalf("AllowObject(delete) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorOnly(t *testing.T) {
	policy := AuthorOnly{}

	if policy.AllowObject(anonymous, ActionUpdate, "u1") {
		t.Fatalf("anonymous actor must not pass AuthorOnly")
	}
	if !policy.AllowObject(regular, ActionUpdate, regular.ID) {
		t.Fatalf("author must pass AuthorOnly")
	}
	if policy.AllowObject(admin, ActionUpdate, regular.ID) {
		t.Fatalf("admin must not pass AuthorOnly for someone else's object")
	}
}
