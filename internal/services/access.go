package services

import (
	"errors"

	"cafehub/internal/models"
)

// ErrForbidden deliberately carries no detail about the target resource.
var ErrForbidden = errors.New("access denied")

// HasCafeAccess reports whether the user may act on the cafe. Superadmins
// pass unconditionally; everyone else must be on the cafe's assignment list.
// Re-evaluated on every call, no caching.
func HasCafeAccess(user *models.User, cafeID string) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleSuperAdmin {
		return true
	}
	return user.CafeIDs.Contains(cafeID)
}

func RequireCafeAccess(user *models.User, cafeID string) error {
	if !HasCafeAccess(user, cafeID) {
		return ErrForbidden
	}
	return nil
}

// CanManageResource is the ownership variant for legacy single-owner
// resources: the owner or any admin-level role may act.
func CanManageResource(user *models.User, ownerID string) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin || user.Role == models.RoleSuperAdmin {
		return true
	}
	return user.ID == ownerID
}
