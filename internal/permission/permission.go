// Package permission decides allow/deny for an (actor, resource, action)
// triple using a small closed set of policies evaluated by a pure function.
package permission

import (
	"errors"

	"watchlist/internal/domain"
)

// Action distinguishes read from write access.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// Policy enumerates the access rules the service knows about.
type Policy int

const (
	// AdminOrReadOnly allows reads for everyone and writes for admins.
	// Applied to platform and movie mutations.
	AdminOrReadOnly Policy = iota
	// OwnerOrAdminOrReadOnly allows reads for everyone and writes for the
	// resource owner or an admin. Applied to review mutations.
	OwnerOrAdminOrReadOnly
	// AuthenticationRequired allows any action for any authenticated actor.
	// Applied to review creation, where no owned resource exists yet.
	AuthenticationRequired
)

var (
	// ErrUnauthenticated means the request carried no valid identity.
	ErrUnauthenticated = errors.New("permission: authentication required")
	// ErrForbidden means the identity is valid but not allowed.
	ErrForbidden = errors.New("permission: forbidden")
)

// Check evaluates a policy for an actor performing an action. ownerID is
// the owning user's id for owner-scoped policies and ignored otherwise.
// A nil actor is anonymous.
func Check(policy Policy, actor *domain.Actor, action Action, ownerID string) error {
	switch policy {
	case AdminOrReadOnly:
		if action == ActionRead {
			return nil
		}
		if actor == nil {
			return ErrUnauthenticated
		}
		if actor.IsAdmin() {
			return nil
		}
		return ErrForbidden

	case OwnerOrAdminOrReadOnly:
		if action == ActionRead {
			return nil
		}
		if actor == nil {
			return ErrUnauthenticated
		}
		if actor.IsAdmin() || actor.ID == ownerID {
			return nil
		}
		return ErrForbidden

	case AuthenticationRequired:
		if actor == nil {
			return ErrUnauthenticated
		}
		return nil
	}
	return ErrForbidden
}
