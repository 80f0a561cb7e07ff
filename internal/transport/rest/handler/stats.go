package handler

import (
	"campuspolls/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// StatsHandler handles aggregation endpoints
type StatsHandler struct {
	statsSvc  *service.StatsService
	promptSvc *service.PromptService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsSvc *service.StatsService, promptSvc *service.PromptService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc, promptSvc: promptSvc}
}

// Get handles GET /v1/prompts/{promptId}/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	promptID := mux.Vars(r)["promptId"]

	if _, err := h.promptSvc.GetByID(r.Context(), promptID); err != nil {
		writeServiceError(w, err)
		return
	}

	stats, err := h.statsSvc.GetPromptStats(r.Context(), promptID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
