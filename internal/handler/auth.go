package handler

import (
	"errors"
	"net/http"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/server/middleware"
	"github.com/sautihub/sauti/internal/service"
)

// AuthHandler serves login, password changes, and token introspection.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// loginRequest is the expected payload for the Login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and returns a bearer token valid for 24 hours.
// Unknown usernames and wrong passwords produce the same response.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	session, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Authentication error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// changePasswordRequest is the expected payload for ChangePassword.
type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword updates the calling admin's password. The target account is
// resolved from the verified token, never from the request body. Tokens
// issued before the change remain valid until they expire.
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req changePasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Both old and new passwords are required")
		return
	}

	if err := h.authSvc.ChangePassword(r.Context(), claims, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Incorrect current password")
		case errors.Is(err, service.ErrMissingField):
			writeError(w, http.StatusBadRequest, "Both old and new passwords are required")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to change password: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Password updated successfully"})
}

// Verify returns the identity claims of the caller's token. Useful for
// frontends restoring a session after a reload.
// GET /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"admin_id": claims.AdminID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}
