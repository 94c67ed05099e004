// Package permission holds the stateless allow/deny decisions governing
// who may act on which resource. Policies are built from small predicate
// functions combined with explicit boolean logic; collection-level and
// object-level checks are independent, and a request must pass the
// collection check before an object check is attempted.
package permission

import "github.com/senyehor/yamdb/internal/domain"

// Action classifies a request the way HTTP verbs do.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Safe reports whether the action is read-only.
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

// isAdmin and isModerator treat an anonymous actor (nil) as neither.
func isAdmin(actor *domain.User) bool {
	return actor != nil && actor.IsAdmin()
}

func isModerator(actor *domain.User) bool {
	return actor != nil && actor.IsModerator()
}

func isAuthor(actor *domain.User, authorID string) bool {
	return actor != nil && actor.ID == authorID
}

// Policy decides access for a resource class.
type Policy interface {
	// Allow is the collection-level check.
	Allow(actor *domain.User, action Action) bool
	// AllowObject is the object-level check against the target's author.
	AllowObject(actor *domain.User, action Action, authorID string) bool
}

// AdminOnly permits authenticated admins and nobody else.
type AdminOnly struct{}

func (AdminOnly) Allow(actor *domain.User, _ Action) bool {
	return isAdmin(actor)
}

func (AdminOnly) AllowObject(actor *domain.User, _ Action, _ string) bool {
	return isAdmin(actor)
}

// AdminOrReadOnly permits safe actions for everyone and unsafe actions
// for admins only.
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) Allow(actor *domain.User, action Action) bool {
	return action.Safe() || isAdmin(actor)
}

func (AdminOrReadOnly) AllowObject(actor *domain.User, action Action, _ string) bool {
	return action.Safe() || isAdmin(actor)
}

// AdminOrModeratorOrAuthorOrReadOnly permits safe actions for everyone.
// Unsafe actions require authentication at the collection level; at the
// object level the actor must be an admin, a moderator, or the author of
// the target.
type AdminOrModeratorOrAuthorOrReadOnly struct{}

func (AdminOrModeratorOrAuthorOrReadOnly) Allow(actor *domain.User, action Action) bool {
	return action.Safe() || actor != nil
}

func (AdminOrModeratorOrAuthorOrReadOnly) AllowObject(actor *domain.User, action Action, authorID string) bool {
	if action.Safe() {
		return true
	}
	return isAdmin(actor) || isModerator(actor) || isAuthor(actor, authorID)
}

// AuthorOnly permits an action only when the actor is the target's
// author. It has no meaningful collection-level form.
type AuthorOnly struct{}

func (AuthorOnly) Allow(actor *domain.User, _ Action) bool {
	return actor != nil
}

func (AuthorOnly) AllowObject(actor *domain.User, _ Action, authorID string) bool {
	return isAuthor(actor, authorID)
}
