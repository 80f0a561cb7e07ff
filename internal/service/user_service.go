package service

import (
	"campuspolls/internal/model"
	"campuspolls/internal/repository"
	"context"
	"fmt"
	"time"
)

// UserService handles account provisioning, profile completion, and
// moderator promotion.
type UserService struct {
	userRepo repository.UserRepo
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// ProvisionFromWebhook upserts a skeleton account from the identity
// provider's account-created event. Idempotent: a replayed webhook
// returns the existing record.
func (s *UserService) ProvisionFromWebhook(ctx context.Context, req *model.IdentityWebhookRequest) (*model.User, error) {
	if req.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	existing, err := s.userRepo.GetBySubject(ctx, req.Subject)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := &model.User{
		Subject:   req.Subject,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
	}

	err = s.userRepo.Create(ctx, user)
	if err == repository.ErrDuplicateKey {
		// Concurrent webhook delivery; the winner's record is authoritative
		return s.userRepo.GetBySubject(ctx, req.Subject)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CompleteProfile fills in demographics and marks the account created
func (s *UserService) CompleteProfile(ctx context.Context, userID string, req *model.CompleteProfileRequest) (*model.User, error) {
	if req.FirstName == "" {
		return nil, fmt.Errorf("%w: firstName is required", ErrValidation)
	}
	if req.LastName == "" {
		return nil, fmt.Errorf("%w: lastName is required", ErrValidation)
	}
	if req.Gender == "" {
		return nil, fmt.Errorf("%w: gender is required", ErrValidation)
	}
	if req.Position == "" {
		return nil, fmt.Errorf("%w: position is required", ErrValidation)
	}
	if req.BirthYear < 1900 || req.BirthYear > time.Now().Year() {
		return nil, fmt.Errorf("%w: birthYear is out of range", ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Gender = req.Gender
	user.Position = req.Position
	user.BirthYear = req.BirthYear
	user.AccountCreated = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Promote grants moderator privileges to a user
func (s *UserService) Promote(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	user.IsMod = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetBySubject returns a user by identity-provider subject
func (s *UserService) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	return s.userRepo.GetBySubject(ctx, subject)
}
