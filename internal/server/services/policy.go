package services

import (
	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// Authorize decides whether principal may mutate the user targetID.
// Ownership is checked first, then the role-change restriction; both must
// pass.
func Authorize(principal *models.Principal, targetID int64, changesRole bool) error {
	if principal == nil {
		return common.ErrUnauthenticated
	}

	isAdmin := principal.Role == models.RoleAdmin

	if !isAdmin && principal.ID != targetID {
		return common.ErrNotOwner
	}
	if changesRole && !isAdmin {
		return common.ErrRoleChangeForbidden
	}
	return nil
}
