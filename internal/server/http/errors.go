package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/usersvc/internal/common"
)

// mapError turns a service error into a status and response body. Unknown
// errors become a generic 500 so internals never leak.
func mapError(err error) (int, apiError) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, apiError{Error: "Validation Failed", Details: []FieldError{{Message: err.Error()}}}
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict, apiError{Error: "Email already Exists!"}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, apiError{Error: "Unauthorized", Message: "Invalid email or password"}
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, apiError{Error: "Unauthorized", Message: "Authentication required."}
	case errors.Is(err, common.ErrNotOwner):
		return http.StatusForbidden, apiError{Error: "Forbidden", Message: "You can only modify your own account."}
	case errors.Is(err, common.ErrRoleChangeForbidden):
		return http.StatusForbidden, apiError{Error: "Forbidden", Message: "Only admin users can change roles."}
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, apiError{Error: "Forbidden"}
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, apiError{Error: "User not found"}
	default:
		return http.StatusInternalServerError, apiError{Error: "Internal server Error!", Message: "Something went wrong."}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), op+" failed", "error", err)
	} else {
		h.logger.Warn(r.Context(), op+" rejected", "error", err, "status_code", status)
	}
	writeJSON(w, status, body)
}
