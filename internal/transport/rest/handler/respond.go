package handler

import (
	"campuspolls/internal/service"
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is the response shape on every endpoint
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// writeServiceError maps service errors onto conventional status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
