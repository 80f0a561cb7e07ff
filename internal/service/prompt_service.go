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

// PromptService handles prompt submission and lifecycle transitions
type PromptService struct {
	promptRepo   repository.PromptRepo
	responseRepo repository.ResponseRepo
	moderation   *ModerationService
	statsCache   cache.StatsCache
}

// NewPromptService creates a new prompt service
func NewPromptService(
	promptRepo repository.PromptRepo,
	responseRepo repository.ResponseRepo,
	moderation *ModerationService,
	statsCache cache.StatsCache,
) *PromptService {
	return &PromptService{
		promptRepo:   promptRepo,
		responseRepo: responseRepo,
		moderation:   moderation,
		statsCache:   statsCache,
	}
}

// Submit screens a prompt through the moderation gate and persists it.
// Auto-flagged prompts are still stored, just excluded from the default
// feed; the returned bool tells the caller a pending-review message is due.
func (s *PromptService) Submit(ctx context.Context, creatorID string, req *model.CreatePromptRequest) (*model.Prompt, bool, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, false, fmt.Errorf("%w: question is required", ErrValidation)
	}

	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) == 0 {
		return nil, false, fmt.Errorf("%w: at least one answer option is required", ErrValidation)
	}
	if len(options) > model.MaxOptions {
		return nil, false, fmt.Errorf("%w: at most %d answer options are allowed", ErrValidation, model.MaxOptions)
	}

	texts := append([]string{question}, options...)
	flagged := s.moderation.CheckTexts(ctx, texts)

	prompt := &model.Prompt{
		Question:      question,
		Options:       options,
		CreatorID:     creatorID,
		IsAutoFlagged: flagged,
	}

	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, false, err
	}
	return prompt, flagged, nil
}

// GetByID returns a prompt by ID
func (s *PromptService) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, ErrNotFound
	}
	return prompt, nil
}

// Feed returns prompts for the default view (not archived, not auto-flagged)
func (s *PromptService) Feed(ctx context.Context) ([]*model.Prompt, error) {
	return s.promptRepo.ListFeed(ctx)
}

// Reported returns reported prompts for the moderator queue
func (s *PromptService) Reported(ctx context.Context) ([]*model.Prompt, error) {
	return s.promptRepo.ListReported(ctx)
}

// Archived returns archived prompts
func (s *PromptService) Archived(ctx context.Context) ([]*model.Prompt, error) {
	return s.promptRepo.ListArchived(ctx)
}

// Report flags a prompt for moderator review
func (s *PromptService) Report(ctx context.Context, id string) error {
	return s.translateNotFound(s.promptRepo.SetReported(ctx, id, true))
}

// ClearReport removes the reported flag
func (s *PromptService) ClearReport(ctx context.Context, id string) error {
	return s.translateNotFound(s.promptRepo.SetReported(ctx, id, false))
}

// Archive hides a prompt from the default feed
func (s *PromptService) Archive(ctx context.Context, id string) error {
	return s.translateNotFound(s.promptRepo.SetArchived(ctx, id, true))
}

// Restore returns an archived prompt to the default feed
func (s *PromptService) Restore(ctx context.Context, id string) error {
	return s.translateNotFound(s.promptRepo.SetArchived(ctx, id, false))
}

// Delete removes a prompt and cascades to its responses
func (s *PromptService) Delete(ctx context.Context, id string) error {
	if err := s.translateNotFound(s.promptRepo.Delete(ctx, id)); err != nil {
		return err
	}

	deleted, err := s.responseRepo.DeleteByPromptID(ctx, id)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("Deleted %d responses for prompt %s", deleted, id)
	}

	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx, id); err != nil {
			log.Printf("Failed to invalidate stats cache for prompt %s: %v", id, err)
		}
	}
	return nil
}

func (s *PromptService) translateNotFound(err error) error {
	if err == repository.ErrNotFound {
		return ErrNotFound
	}
	return err
}
