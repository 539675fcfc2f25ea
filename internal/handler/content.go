package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/server/middleware"
	"github.com/sautihub/sauti/internal/store"
)

// ContentHandler manages the homepage media: slideshow images and the hero
// banner. Reads are public; mutations require an authenticated admin.
type ContentHandler struct {
	store *store.Store
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(st *store.Store) *ContentHandler {
	return &ContentHandler{store: st}
}

// ---------------------------------------------------------------------------
// Slides
// ---------------------------------------------------------------------------

// uploadSlideRequest is the expected payload for UploadSlide. The uploader is
// taken from the verified token, not from the body.
type uploadSlideRequest struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

// UploadSlide registers a new slideshow image. New slides start inactive.
// POST /api/slides/upload
func (h *ContentHandler) UploadSlide(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req uploadSlideRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "Image URL is required")
		return
	}

	slide := &model.Slide{
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
		UploadedBy: claims.AdminID,
	}
	if err := h.store.CreateSlide(r.Context(), slide); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save slide: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, slide)
}

// ListSlides returns all slides, active or not.
// GET /api/slides
func (h *ContentHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.store.ListSlides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list slides: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, slides)
}

// ListActiveSlides returns the slides currently shown on the homepage.
// GET /api/slides/active
func (h *ContentHandler) ListActiveSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.store.ListActiveSlides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list slides: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, slides)
}

// ToggleSlide flips a slide between active and inactive.
// PATCH /api/slides/{slideID}/toggle
func (h *ContentHandler) ToggleSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := slideID(w, r)
	if !ok {
		return
	}

	active, err := h.store.ToggleSlide(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Slide not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to toggle slide: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Slide status updated",
		"is_active": active,
	})
}

// DeleteSlide removes a slide.
// DELETE /api/slides/{slideID}
func (h *ContentHandler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := slideID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteSlide(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Slide not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete slide: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Slide deleted successfully"})
}

func slideID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "slideID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid slide ID: "+idStr)
		return 0, false
	}
	return id, true
}

// ---------------------------------------------------------------------------
// Hero image
// ---------------------------------------------------------------------------

// GetHero returns the hero image URL, or null when none has been set.
// GET /api/hero
func (h *ContentHandler) GetHero(w http.ResponseWriter, r *http.Request) {
	hero, err := h.store.GetHero(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"image_url": nil})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get hero image: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"image_url": hero.ImageURL})
}

// setHeroRequest is the expected payload for SetHero.
type setHeroRequest struct {
	ImageURL string `json:"image_url"`
}

// SetHero replaces the hero image.
// POST /api/hero
func (h *ContentHandler) SetHero(w http.ResponseWriter, r *http.Request) {
	var req setHeroRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "Image URL is required")
		return
	}

	if err := h.store.SetHero(r.Context(), req.ImageURL); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set hero image: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Hero image updated successfully"})
}
