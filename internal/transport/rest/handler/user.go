package handler

import (
	"campuspolls/internal/model"
	"campuspolls/internal/service"
	"campuspolls/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// UserHandler handles account endpoints
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me handles GET /v1/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	user, err := h.userSvc.GetByID(r.Context(), principal.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// CompleteProfile handles PUT /v1/me
func (h *UserHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	var req model.CompleteProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userSvc.CompleteProfile(r.Context(), principal.UserID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Promote handles POST /v1/users/{userId}/promote (moderator only)
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := h.userSvc.Promote(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, user, "user promoted to moderator")
}
