package domain

// Role classifies an authenticated user.
type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// Actor is the authenticated identity attached to a request. A nil *Actor
// means the request is anonymous.
type Actor struct {
	ID       string
	Username string
	Role     Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
