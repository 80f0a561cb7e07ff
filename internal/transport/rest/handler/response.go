package handler

import (
	"campuspolls/internal/model"
	"campuspolls/internal/service"
	"campuspolls/internal/transport/rest/middleware"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// ResponseHandler handles answer-submission endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// Submit handles POST /v1/prompts/{promptId}/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	promptID := mux.Vars(r)["promptId"]

	var req model.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.responseSvc.Submit(r.Context(), principal.UserID, promptID, req.SelectedResponse)
	if err != nil {
		var already *service.AlreadyRespondedError
		if errors.As(err, &already) {
			// Duplicate submissions get the existing record back so the
			// client can render the prior answer.
			writeEnvelope(w, http.StatusConflict, Envelope{
				Success: false,
				Data:    already.Existing,
				Message: already.Error(),
			})
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// Mine handles GET /v1/prompts/{promptId}/responses/mine
func (h *ResponseHandler) Mine(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	promptID := mux.Vars(r)["promptId"]

	response, err := h.responseSvc.GetMine(r.Context(), principal.UserID, promptID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if response == nil {
		writeError(w, http.StatusNotFound, "no response recorded")
		return
	}

	writeJSON(w, http.StatusOK, response)
}
