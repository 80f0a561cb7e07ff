package service

import (
	"campuspolls/internal/cache"
	"campuspolls/internal/model"
	"campuspolls/internal/repository"
	"context"
	"log"
	"time"
)

// StatsService is the read-only aggregation engine: it groups responses
// by selected answer and joins user demographics into per-answer tallies.
type StatsService struct {
	responseRepo repository.ResponseRepo
	userRepo     repository.UserRepo
	statsCache   cache.StatsCache
	minPerAnswer int
	now          func() time.Time
}

// NewStatsService creates a new stats service. minPerAnswer is the
// privacy threshold: every answered option needs at least that many
// respondents before hasEnoughData is set.
func NewStatsService(
	responseRepo repository.ResponseRepo,
	userRepo repository.UserRepo,
	statsCache cache.StatsCache,
	minPerAnswer int,
) *StatsService {
	return &StatsService{
		responseRepo: responseRepo,
		userRepo:     userRepo,
		statsCache:   statsCache,
		minPerAnswer: minPerAnswer,
		now:          time.Now,
	}
}

// GetPromptStats returns aggregated stats for a prompt, consulting the
// cache first. Zero responses yield an empty-but-valid structure.
func (s *StatsService) GetPromptStats(ctx context.Context, promptID string) (*model.PromptStats, error) {
	if s.statsCache != nil {
		cached, err := s.statsCache.Get(ctx, promptID)
		if err != nil {
			log.Printf("Stats cache read failed for prompt %s: %v", promptID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.compute(ctx, promptID)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			log.Printf("Stats cache write failed for prompt %s: %v", promptID, err)
		}
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context, promptID string) (*model.PromptStats, error) {
	responses, err := s.responseRepo.GetByPromptID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	stats := &model.PromptStats{
		PromptID:      promptID,
		ResponseCount: len(responses),
		AnswerStats:   map[string]model.AnswerStats{},
	}
	if len(responses) == 0 {
		return stats, nil
	}

	// Group user IDs by selected answer
	groups := map[string][]string{}
	userIDs := make([]string, 0, len(responses))
	for _, r := range responses {
		groups[r.SelectedResponse] = append(groups[r.SelectedResponse], r.UserID)
		userIDs = append(userIDs, r.UserID)
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	currentYear := s.now().Year()
	enough := true
	for answer, ids := range groups {
		answerStats := model.AnswerStats{
			Count: len(ids),
			Demographics: model.Demographics{
				Gender:   map[string]int{},
				Position: map[string]int{},
				Age:      map[string]int{},
			},
		}

		for _, id := range ids {
			user, ok := byID[id]
			if !ok {
				continue
			}
			if user.Gender != "" {
				answerStats.Demographics.Gender[user.Gender]++
			}
			if user.Position != "" {
				answerStats.Demographics.Position[user.Position]++
			}
			if user.BirthYear > 0 {
				answerStats.Demographics.Age[ageBucket(currentYear-user.BirthYear)]++
			}
		}

		if answerStats.Count < s.minPerAnswer {
			enough = false
		}
		stats.AnswerStats[answer] = answerStats
	}

	stats.HasEnoughData = enough
	return stats, nil
}

// ageBucket maps an age to its display range
func ageBucket(age int) string {
	switch {
	case age < 18:
		return "<18"
	case age <= 24:
		return "18-24"
	case age <= 34:
		return "25-34"
	case age <= 44:
		return "35-44"
	case age <= 54:
		return "45-54"
	default:
		return "55+"
	}
}
