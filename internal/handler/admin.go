package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/service"
	"github.com/sautihub/sauti/internal/store"
)

// AdminHandler manages admin accounts. Every route it serves sits behind the
// super-admin gate in the router, so the handlers themselves only deal with
// input validation and store errors.
type AdminHandler struct {
	store   *store.Store
	authSvc *service.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st *store.Store, authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{store: st, authSvc: authSvc}
}

// ListAdmins returns all admin accounts. Password hashes never serialize.
// GET /api/admin/all
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.store.ListAdmins(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list admins: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

// addAdminRequest is the expected payload for AddAdmin.
type addAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsSuper  bool   `json:"is_super"`
}

// AddAdmin creates a new admin account.
// POST /api/admin/add
func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	role := model.RoleAdmin
	if req.IsSuper {
		role = model.RoleSuperAdmin
	}

	admin, err := h.authSvc.CreateAdmin(r.Context(), req.Username, req.Password, role)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			writeError(w, http.StatusConflict, "Admin already exists: "+req.Username)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create admin: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": fmt.Sprintf("Admin %q added successfully", admin.Username),
		"admin":   admin,
	})
}

// RemoveAdmin deletes an admin account by ID. The store refuses to remove
// the last remaining super-admin. Slides uploaded by the deleted admin stay
// in place.
// DELETE /api/admin/{adminID}
func (h *AdminHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "adminID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admin ID: "+idStr)
		return
	}

	if err := h.store.DeleteAdmin(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Admin not found: "+idStr)
		case errors.Is(err, store.ErrLastSuperAdmin):
			writeError(w, http.StatusConflict, "Cannot remove the last super-admin")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to remove admin: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Admin removed successfully"})
}
