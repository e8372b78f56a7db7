package permission

import (
	"testing"

	"watchlist/internal/domain"
)

var (
	admin   = &domain.Actor{ID: "u-admin", Username: "root", Role: domain.RoleAdmin}
	owner   = &domain.Actor{ID: "u-owner", Username: "alice", Role: domain.RoleRegular}
	someone = &domain.Actor{ID: "u-other", Username: "bob", Role: domain.RoleRegular}
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		actor   *domain.Actor
		action  Action
		ownerID string
		want    error
	}{
		{"admin-or-readonly: anonymous read", AdminOrReadOnly, nil, ActionRead, "", nil},
		{"admin-or-readonly: regular read", AdminOrReadOnly, someone, ActionRead, "", nil},
		{"admin-or-readonly: anonymous write", AdminOrReadOnly, nil, ActionWrite, "", ErrUnauthenticated},
		{"admin-or-readonly: regular write", AdminOrReadOnly, someone, ActionWrite, "", ErrForbidden},
		{"admin-or-readonly: admin write", AdminOrReadOnly, admin, ActionWrite, "", nil},

		{"owner-or-admin: anonymous read", OwnerOrAdminOrReadOnly, nil, ActionRead, "u-owner", nil},
		{"owner-or-admin: anonymous write", OwnerOrAdminOrReadOnly, nil, ActionWrite, "u-owner", ErrUnauthenticated},
		{"owner-or-admin: owner write", OwnerOrAdminOrReadOnly, owner, ActionWrite, "u-owner", nil},
		{"owner-or-admin: other user write", OwnerOrAdminOrReadOnly, someone, ActionWrite, "u-owner", ErrForbidden},
		{"owner-or-admin: admin write", OwnerOrAdminOrReadOnly, admin, ActionWrite, "u-owner", nil},

		{"auth-required: anonymous", AuthenticationRequired, nil, ActionWrite, "", ErrUnauthenticated},
		{"auth-required: regular", AuthenticationRequired, someone, ActionWrite, "", nil},
		{"auth-required: admin", AuthenticationRequired, admin, ActionWrite, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.policy, tt.actor, tt.action, tt.ownerID)
			if got != tt.want {
				t.Fatalf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_UnknownPolicyDenies(t *testing.T) {
	if err := Check(Policy(99), admin, ActionRead, ""); err != ErrForbidden {
		t.Fatalf("unknown policy should deny, got %v", err)
	}
}
