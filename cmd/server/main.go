package main

import (
	"campuspolls/internal/cache"
	"campuspolls/internal/config"
	"campuspolls/internal/repository"
	"campuspolls/internal/service"
	"campuspolls/internal/transport/rest"
	"campuspolls/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Campus Polls API
// @version 1.0
// @description Campus Q&A and polling backend with moderated prompts and demographic stats
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Moderation config
	modCfg := config.DefaultModerationConfig()
	log.Printf("Moderation Config:")
	log.Printf("  Base URL:  %s", modCfg.BaseURL)
	log.Printf("  Threshold: %.2f", modCfg.Threshold)
	if modCfg.IsEnabled() {
		log.Println("  API Key:   configured ✓")
	} else {
		log.Println("  API Key:   NOT SET (moderation disabled, nothing gets flagged)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Unique indexes back the one-response-per-user-per-prompt invariant
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}
	log.Println("Indexes ensured")

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	promptRepo := repository.NewPromptRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize caches
	statsCache := cache.NewStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	userSvc := service.NewUserService(userRepo)

	var classifier service.Classifier = service.NoopClassifier{}
	if modCfg.IsEnabled() {
		classifier = service.NewModerationClient(modCfg)
	}
	moderationSvc := service.NewModerationService(classifier, modCfg.Threshold)

	promptSvc := service.NewPromptService(promptRepo, responseRepo, moderationSvc, statsCache)
	statsSvc := service.NewStatsService(responseRepo, userRepo, statsCache, cfg.StatsMinPerAnswer)
	responseSvc := service.NewResponseService(responseRepo, promptRepo, statsCache)

	// Inject live-stats plumbing (wsHub implements service.Broadcaster)
	responseSvc.SetStatsService(statsSvc)
	responseSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		UserService:     userSvc,
		PromptService:   promptSvc,
		ResponseService: responseSvc,
		StatsService:    statsSvc,
		WSHub:           wsHub,
		WebhookSecret:   cfg.WebhookSecret,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/webhooks/identity")
		log.Println("  GET/PUT /v1/me")
		log.Println("  GET  /v1/feed")
		log.Println("  POST /v1/prompts")
		log.Println("  POST /v1/prompts/{id}/responses")
		log.Println("  GET  /v1/prompts/{id}/stats")
		log.Println("  WS   /v1/ws/prompts/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
