package auth

import (
	"github.com/google/uuid"

	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

// Actor is the caller resolved for one request. A nil *Actor is anonymous.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// Authenticated reports whether the actor names a user.
func (a *Actor) Authenticated() bool {
	return a != nil && a.UserID != uuid.Nil
}

// Can reports whether the actor holds at least min.
func (a *Actor) Can(min enums.Role) bool {
	return a.Authenticated() && a.Role.AtLeast(min)
}

// IsAdmin is shorthand for Can(enums.RoleAdmin).
func (a *Actor) IsAdmin() bool {
	return a.Can(enums.RoleAdmin)
}

// Capabilities returns the boolean capability view; anonymous holds none.
func (a *Actor) Capabilities() enums.Capabilities {
	if !a.Authenticated() {
		return enums.Capabilities{}
	}
	return a.Role.Capabilities()
}

// OwnerScope returns the owner id mutations must be filtered by, or nil for
// admins who may act on any row.
func (a *Actor) OwnerScope() *uuid.UUID {
	if a.IsAdmin() {
		return nil
	}
	id := a.UserID
	return &id
}

// Require returns UNAUTHORIZED unless the actor holds at least min.
func Require(a *Actor, min enums.Role) error {
	if !a.Authenticated() {
		return pkgerrors.Unauthorized("authentication required")
	}
	if !a.Role.AtLeast(min) {
		return pkgerrors.Unauthorized("insufficient permissions").
			WithDetails(map[string]any{"required": min.String()})
	}
	return nil
}
