package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// userID parses the {id} path parameter, which must be a positive integer.
func userID(r *http.Request) (int64, []FieldError) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, []FieldError{{Field: "id", Tag: "number", Message: "id must be a positive integer"}}
	}
	return id, nil
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		h.respondError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Successfully retrieved Users!",
		"users":   list,
		"count":   len(list),
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, details := userID(r)
	if details != nil {
		writeValidation(w, details)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Successfully retrieved User!",
		"user":    u,
	})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, details := userID(r)
	if details != nil {
		writeValidation(w, details)
		return
	}

	var req updateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidation(w, bodyError(err))
		return
	}
	trimPtr(req.Name)
	trimPtr(req.Email)

	if details := validateStruct(h.validate, req); details != nil {
		writeValidation(w, details)
		return
	}
	if req.empty() {
		writeValidation(w, []FieldError{{Message: "at least one field must be provided"}})
		return
	}

	in := services.UpdateInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := models.Role(*req.Role)
		in.Role = &role
	}

	u, err := h.users.Update(r.Context(), auth.PrincipalFromContext(r.Context()), id, in)
	if err != nil {
		h.respondError(w, r, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated Successfully!",
		"user":    u,
	})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, details := userID(r)
	if details != nil {
		writeValidation(w, details)
		return
	}

	u, err := h.users.Delete(r.Context(), auth.PrincipalFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, r, "delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted Successfully!",
		"user":    u,
	})
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
