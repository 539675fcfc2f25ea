package handler

import (
	"net/http"

	"github.com/sautihub/sauti/internal/store"
)

// DashboardHandler serves the aggregate views behind the campaign dashboard:
// grouped yes/no counts and the quick-stats overview.
type DashboardHandler struct {
	store *store.Store
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{store: st}
}

// Summary returns total, yes, and no counts across all feedback.
// GET /api/dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.FeedbackSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize feedback: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// BySubcounty returns feedback counts grouped by subcounty.
// GET /api/dashboard/by-subcounty
func (h *DashboardHandler) BySubcounty(w http.ResponseWriter, r *http.Request) {
	h.byRegion(w, r, "subcounty")
}

// ByWard returns feedback counts grouped by ward.
// GET /api/dashboard/by-ward
func (h *DashboardHandler) ByWard(w http.ResponseWriter, r *http.Request) {
	h.byRegion(w, r, "ward")
}

// ByVillage returns feedback counts grouped by village.
// GET /api/dashboard/by-village
func (h *DashboardHandler) ByVillage(w http.ResponseWriter, r *http.Request) {
	h.byRegion(w, r, "village")
}

func (h *DashboardHandler) byRegion(w http.ResponseWriter, r *http.Request, column string) {
	breakdown, err := h.store.FeedbackByRegion(r.Context(), column)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate feedback: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// QuickStats returns the admin-overview counters.
// GET /api/dashboard/quick-stats
func (h *DashboardHandler) QuickStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.QuickStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
