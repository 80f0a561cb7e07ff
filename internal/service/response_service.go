package service

import (
	"campuspolls/internal/cache"
	"campuspolls/internal/model"
	"campuspolls/internal/repository"
	"context"
	"fmt"
	"log"
	"strings"
)

// Broadcaster pushes live stats to WebSocket watchers (avoids import cycle)
type Broadcaster interface {
	BroadcastStats(promptID string, stats *model.PromptStats)
}

// ResponseService records answer selections, enforcing at most one
// response per (user, prompt).
type ResponseService struct {
	responseRepo repository.ResponseRepo
	promptRepo   repository.PromptRepo
	statsCache   cache.StatsCache
	statsSvc     *StatsService
	broadcaster  Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(
	responseRepo repository.ResponseRepo,
	promptRepo repository.PromptRepo,
	statsCache cache.StatsCache,
) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		promptRepo:   promptRepo,
		statsCache:   statsCache,
	}
}

// SetBroadcaster sets the broadcaster for live stats updates
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetStatsService sets the stats service used for live updates
func (s *ResponseService) SetStatsService(svc *StatsService) {
	s.statsSvc = svc
}

// Submit records a response. The pre-check gives early feedback; the
// unique compound index is the authoritative guard, and a losing
// concurrent insert is translated into the same already-responded shape.
func (s *ResponseService) Submit(ctx context.Context, userID, promptID, selected string) (*model.UserResponse, error) {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return nil, fmt.Errorf("%w: selectedResponse is required", ErrValidation)
	}

	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, ErrNotFound
	}
	if !prompt.HasOption(selected) {
		return nil, fmt.Errorf("%w: selectedResponse must match one of the prompt's options", ErrValidation)
	}

	existing, err := s.responseRepo.GetByUserAndPrompt(ctx, userID, promptID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &AlreadyRespondedError{Existing: existing}
	}

	response := &model.UserResponse{
		UserID:           userID,
		PromptID:         promptID,
		SelectedResponse: selected,
	}

	err = s.responseRepo.Create(ctx, response)
	if err == repository.ErrDuplicateKey {
		winner, readErr := s.responseRepo.GetByUserAndPrompt(ctx, userID, promptID)
		if readErr != nil {
			return nil, readErr
		}
		return nil, &AlreadyRespondedError{Existing: winner}
	}
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx, promptID); err != nil {
			log.Printf("Failed to invalidate stats cache for prompt %s: %v", promptID, err)
		}
	}
	s.pushLiveStats(ctx, promptID)

	return response, nil
}

// GetMine returns the caller's own response for a prompt, or nil
func (s *ResponseService) GetMine(ctx context.Context, userID, promptID string) (*model.UserResponse, error) {
	return s.responseRepo.GetByUserAndPrompt(ctx, userID, promptID)
}

func (s *ResponseService) pushLiveStats(ctx context.Context, promptID string) {
	if s.broadcaster == nil || s.statsSvc == nil {
		return
	}
	stats, err := s.statsSvc.GetPromptStats(ctx, promptID)
	if err != nil {
		log.Printf("Failed to compute live stats for prompt %s: %v", promptID, err)
		return
	}
	s.broadcaster.BroadcastStats(promptID, stats)
}
