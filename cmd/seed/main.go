package main

import (
	"campuspolls/internal/config"
	"campuspolls/internal/model"
	"campuspolls/internal/repository"
	"campuspolls/internal/service"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds a moderator, a handful of demo accounts with demographics, and
// two sample prompts. Prints a signed token per account for manual
// testing against a local server.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	promptRepo := repository.NewPromptRepo(db)
	authSvc := service.NewAuthService(cfg.JWTSecret)

	users := []*model.User{
		{
			Subject:        "seed|" + uuid.New().String()[:8],
			Email:          "mod@campus.edu",
			FirstName:      "Morgan",
			LastName:       "Reyes",
			Gender:         "Female",
			Position:       "Graduate",
			BirthYear:      1998,
			AccountCreated: true,
			IsMod:          true,
		},
		{
			Subject:        "seed|" + uuid.New().String()[:8],
			Email:          "alex@campus.edu",
			FirstName:      "Alex",
			LastName:       "Kim",
			Gender:         "Male",
			Position:       "Undergraduate",
			BirthYear:      2004,
			AccountCreated: true,
		},
		{
			Subject:        "seed|" + uuid.New().String()[:8],
			Email:          "sam@campus.edu",
			FirstName:      "Sam",
			LastName:       "Osei",
			Gender:         "Non-binary",
			Position:       "Faculty",
			BirthYear:      1985,
			AccountCreated: true,
		},
	}

	for _, u := range users {
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.Email, err)
		}
		token, err := authSvc.GenerateToken(u.Subject, u.Email)
		if err != nil {
			log.Fatalf("Failed to mint token for %s: %v", u.Email, err)
		}
		fmt.Printf("%s (mod=%v)\n  token: %s\n", u.Email, u.IsMod, token)
	}

	prompts := []*model.Prompt{
		{
			Question:  "Pineapple on pizza?",
			Options:   []string{"Yes", "No"},
			CreatorID: users[1].ID,
		},
		{
			Question:  "Best spot to study on campus?",
			Options:   []string{"Library", "Student union", "Coffee shop", "Dorm"},
			CreatorID: users[2].ID,
		},
	}

	for _, p := range prompts {
		if err := promptRepo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to seed prompt %q: %v", p.Question, err)
		}
	}

	fmt.Printf("Seeded %d users and %d prompts\n", len(users), len(prompts))
}
