package handler

import (
	"net/http"
	"strings"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/store"
)

// FeedbackHandler serves the public feedback endpoints: submission and the
// aggregate views the campaign site embeds.
type FeedbackHandler struct {
	store *store.Store
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(st *store.Store) *FeedbackHandler {
	return &FeedbackHandler{store: st}
}

// submitRequest is the expected payload for Submit. WillVote arrives as
// "Yes" or "No" from the frontend form.
type submitRequest struct {
	Subcounty  string `json:"subcounty"`
	Ward       string `json:"ward"`
	Village    string `json:"village"`
	AgeBracket string `json:"age_bracket"`
	WillVote   string `json:"will_vote"`
	Reason     string `json:"reason"`
}

// Submit records a citizen feedback entry.
// POST /api/feedback/submit
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Subcounty == "" || req.Ward == "" || req.Village == "" || req.AgeBracket == "" || req.WillVote == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	var willVote bool
	switch strings.ToLower(req.WillVote) {
	case "yes":
		willVote = true
	case "no":
		willVote = false
	default:
		writeError(w, http.StatusBadRequest, `will_vote must be "Yes" or "No"`)
		return
	}

	fb := &model.Feedback{
		Subcounty:  req.Subcounty,
		Ward:       req.Ward,
		Village:    req.Village,
		AgeBracket: req.AgeBracket,
		WillVote:   willVote,
		Reason:     req.Reason,
	}
	if err := h.store.CreateFeedback(r.Context(), fb); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save feedback: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "Feedback submitted successfully"})
}

// Summary returns the portal-wide yes/no totals.
// GET /api/feedback/summary
func (h *FeedbackHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.FeedbackSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize feedback: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ByRegion returns feedback counts grouped by subcounty.
// GET /api/feedback/by-region
func (h *FeedbackHandler) ByRegion(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.store.FeedbackByRegion(r.Context(), "subcounty")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate feedback: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
