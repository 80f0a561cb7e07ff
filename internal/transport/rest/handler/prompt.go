package handler

import (
	"campuspolls/internal/model"
	"campuspolls/internal/service"
	"campuspolls/internal/transport/rest/middleware"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// PendingReviewMessage is returned to submitters of auto-flagged prompts
const PendingReviewMessage = "your prompt is pending review before it appears in the feed"

// PromptHandler handles prompt endpoints
type PromptHandler struct {
	promptSvc *service.PromptService
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptSvc *service.PromptService) *PromptHandler {
	return &PromptHandler{promptSvc: promptSvc}
}

// Create handles POST /v1/prompts
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	var req model.CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt, flagged, err := h.promptSvc.Submit(r.Context(), principal.UserID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if flagged {
		writeMessage(w, http.StatusCreated, prompt, PendingReviewMessage)
		return
	}
	writeJSON(w, http.StatusCreated, prompt)
}

// Get handles GET /v1/prompts/{promptId}
func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.promptSvc.GetByID(r.Context(), mux.Vars(r)["promptId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

// Feed handles GET /v1/feed
func (h *PromptHandler) Feed(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.promptSvc.Feed(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts})
}

// Reported handles GET /v1/prompts/reported (moderator only)
func (h *PromptHandler) Reported(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.promptSvc.Reported(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts})
}

// Archived handles GET /v1/prompts/archived (moderator only)
func (h *PromptHandler) Archived(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.promptSvc.Archived(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts})
}

// Report handles POST /v1/prompts/{promptId}/report
func (h *PromptHandler) Report(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.promptSvc.Report, "prompt reported")
}

// Archive handles POST /v1/prompts/{promptId}/archive (moderator only)
func (h *PromptHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.promptSvc.Archive, "prompt archived")
}

// Restore handles POST /v1/prompts/{promptId}/restore (moderator only)
func (h *PromptHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.promptSvc.Restore, "prompt restored")
}

// ClearReport handles POST /v1/prompts/{promptId}/clear-report (moderator only)
func (h *PromptHandler) ClearReport(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.promptSvc.ClearReport, "report cleared")
}

// Delete handles DELETE /v1/prompts/{promptId} (moderator only)
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.promptSvc.Delete, "prompt deleted")
}

func (h *PromptHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) error, message string) {
	promptID := mux.Vars(r)["promptId"]
	if err := op(r.Context(), promptID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, map[string]string{"promptId": promptID}, message)
}
