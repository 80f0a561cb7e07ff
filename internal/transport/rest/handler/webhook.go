package handler

import (
	"campuspolls/internal/model"
	"campuspolls/internal/service"
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// WebhookHandler receives identity-provider events
type WebhookHandler struct {
	userSvc *service.UserService
	secret  string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(userSvc *service.UserService, secret string) *WebhookHandler {
	return &WebhookHandler{userSvc: userSvc, secret: secret}
}

// IdentityCreated handles POST /v1/webhooks/identity, the identity
// provider's account-created event. Authenticated by shared secret.
func (h *WebhookHandler) IdentityCreated(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Webhook-Secret")), []byte(h.secret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var req model.IdentityWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userSvc.ProvisionFromWebhook(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}
