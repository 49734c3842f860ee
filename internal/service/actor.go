package service

import (
	"github.com/mediaportal/portal-backend/internal/domain"
)

// Actor is the authenticated caller of a service operation; nil means anonymous
type Actor struct {
	UserID   uint64
	Username string
	Role     domain.Role
}

// IsStaff reports whether the actor is an ADMIN or MODERATOR
func (a *Actor) IsStaff() bool {
	return a != nil && a.Role.IsStaff()
}

// IsAdmin reports whether the actor is an ADMIN
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == domain.RoleAdmin
}

// CanModify reports whether the actor may change something owned by ownerID
func (a *Actor) CanModify(ownerID uint64) bool {
	if a == nil {
		return false
	}
	return a.Role.IsStaff() || (ownerID != 0 && a.UserID == ownerID)
}
