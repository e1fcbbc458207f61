package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a single JSON object from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func bodyError(err error) []FieldError {
	return []FieldError{{Field: "body", Tag: "json", Message: err.Error()}}
}

// session issues a token for u and sets it as the session cookie.
func (h *Handler) session(w http.ResponseWriter, u *models.User) error {
	token, expires, err := h.tokens.Issue(auth.ClaimsFor(u))
	if err != nil {
		return err
	}
	h.tokens.Attach(w, token, expires)
	return nil
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidation(w, bodyError(err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if details := validateStruct(h.validate, req); details != nil {
		h.logger.Warn(r.Context(), "signup validation failed", "details", details)
		writeValidation(w, details)
		return
	}

	u, err := h.auth.Signup(r.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		h.respondError(w, r, "signup", err)
		return
	}

	if err := h.session(w, u); err != nil {
		h.respondError(w, r, "signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered Successfully!",
		"user":    u,
	})
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidation(w, bodyError(err))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if details := validateStruct(h.validate, req); details != nil {
		writeValidation(w, details)
		return
	}

	u, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, "signin", err)
		return
	}

	if err := h.session(w, u); err != nil {
		h.respondError(w, r, "signin", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User signed in Successfully!",
		"user":    u,
	})
}

// signout always succeeds; it only tells the client to drop the cookie.
func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	_, hadToken := h.tokens.Read(r)
	h.tokens.Clear(w)

	h.logger.Info(r.Context(), "user signed out", "had_token", hadToken)
	writeJSON(w, http.StatusOK, map[string]any{"message": "User signed out Successfully!"})
}
