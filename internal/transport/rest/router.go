package rest

import (
	"campuspolls/internal/service"
	"campuspolls/internal/transport/rest/handler"
	"campuspolls/internal/transport/rest/middleware"
	"campuspolls/internal/transport/ws"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	UserService     *service.UserService
	PromptService   *service.PromptService
	ResponseService *service.ResponseService
	StatsService    *service.StatsService
	WSHub           *ws.Hub
	WebhookSecret   string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	webhookHandler := handler.NewWebhookHandler(c.UserService, c.WebhookSecret)
	userHandler := handler.NewUserHandler(c.UserService)
	promptHandler := handler.NewPromptHandler(c.PromptService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	statsHandler := handler.NewStatsHandler(c.StatsService, c.PromptService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.UserService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService, c.UserService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"not found"}`))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"success":false,"error":"method not allowed"}`))
	})

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/webhooks/identity", webhookHandler.IdentityCreated).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/prompts/{promptId}", wsHandler.PromptWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Moderator routes. Registered before the user routes so the fixed
	// /prompts/reported and /prompts/archived paths win over the
	// /prompts/{promptId} pattern.
	modRoutes := v1.NewRoute().Subrouter()
	modRoutes.Use(authMW.RequireMod)

	modRoutes.HandleFunc("/prompts/reported", promptHandler.Reported).Methods("GET", "OPTIONS")
	modRoutes.HandleFunc("/prompts/archived", promptHandler.Archived).Methods("GET", "OPTIONS")
	modRoutes.HandleFunc("/prompts/{promptId}/archive", promptHandler.Archive).Methods("POST", "OPTIONS")
	modRoutes.HandleFunc("/prompts/{promptId}/restore", promptHandler.Restore).Methods("POST", "OPTIONS")
	modRoutes.HandleFunc("/prompts/{promptId}/clear-report", promptHandler.ClearReport).Methods("POST", "OPTIONS")
	modRoutes.HandleFunc("/prompts/{promptId}", promptHandler.Delete).Methods("DELETE", "OPTIONS")
	modRoutes.HandleFunc("/users/{userId}/promote", userHandler.Promote).Methods("POST", "OPTIONS")

	// Signed-in user routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/me", userHandler.Me).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/me", userHandler.CompleteProfile).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/feed", promptHandler.Feed).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/prompts", promptHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/prompts/{promptId}", promptHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/prompts/{promptId}/report", promptHandler.Report).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/prompts/{promptId}/responses", responseHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/prompts/{promptId}/responses/mine", responseHandler.Mine).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/prompts/{promptId}/stats", statsHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
