package handlers

import (
	"net/http"
	"time"

	"github.com/avukatajanda/ajanda/internal/api/dto"
	"github.com/avukatajanda/ajanda/internal/api/middleware"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"gorm.io/gorm"
)

type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

type StatsResponse struct {
	TotalClients   int64 `json:"total_clients"`
	TotalCases     int64 `json:"total_cases"`
	ActiveCases    int64 `json:"active_cases"`
	UpcomingEvents int64 `json:"upcoming_events"`
}

// Get handles GET /api/stats. All counts are scoped to the context org.
// "Upcoming" means any event starting from now on, with no upper bound.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	var stats StatsResponse

	if err := h.db.Model(&models.Client{}).
		Where("org_id = ?", orgID).
		Count(&stats.TotalClients).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute stats"})
		return
	}

	if err := h.db.Model(&models.Case{}).
		Where("org_id = ?", orgID).
		Count(&stats.TotalCases).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute stats"})
		return
	}

	if err := h.db.Model(&models.Case{}).
		Where("org_id = ? AND status = ?", orgID, models.CaseStatusActive).
		Count(&stats.ActiveCases).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute stats"})
		return
	}

	if err := h.db.Model(&models.Event{}).
		Where("org_id = ? AND starts_at >= ?", orgID, time.Now().UTC()).
		Count(&stats.UpcomingEvents).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
