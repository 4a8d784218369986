package domain

import (
	"slices"

	"github.com/google/uuid"
)

// RoleAdmin may act in every district.
const RoleAdmin = "admin"

// Actor is the authenticated caller of an operation together with the
// districts they are allowed to act in.
type Actor struct {
	UserID    uuid.UUID
	Role      string
	Districts []uuid.UUID
}

// CanAccess reports whether the actor may issue or read documents of district.
func (a Actor) CanAccess(district uuid.UUID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return slices.Contains(a.Districts, district)
}
