package service

import (
	"campuspolls/internal/model"
	"campuspolls/internal/repository"
	"context"
	"fmt"
	"time"
)

// In-memory repository stubs shared by the service tests.

type memUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Subject == user.Subject || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		r.nextID++
		user.ID = fmt.Sprintf("u%d", r.nextID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	seen := map[string]bool{}
	var out []*model.User
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUserRepo) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	for _, u := range r.users {
		if u.Subject == subject {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type memPromptRepo struct {
	prompts map[string]*model.Prompt
	nextID  int
}

func newMemPromptRepo() *memPromptRepo {
	return &memPromptRepo{prompts: map[string]*model.Prompt{}}
}

func (r *memPromptRepo) Create(ctx context.Context, prompt *model.Prompt) error {
	if prompt.ID == "" {
		r.nextID++
		prompt.ID = fmt.Sprintf("p%d", r.nextID)
	}
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = time.Now()
	}
	cp := *prompt
	r.prompts[prompt.ID] = &cp
	return nil
}

func (r *memPromptRepo) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	if p, ok := r.prompts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memPromptRepo) ListFeed(ctx context.Context) ([]*model.Prompt, error) {
	return r.filter(func(p *model.Prompt) bool { return !p.IsArchived && !p.IsAutoFlagged }), nil
}

func (r *memPromptRepo) ListReported(ctx context.Context) ([]*model.Prompt, error) {
	return r.filter(func(p *model.Prompt) bool { return p.IsReported }), nil
}

func (r *memPromptRepo) ListArchived(ctx context.Context) ([]*model.Prompt, error) {
	return r.filter(func(p *model.Prompt) bool { return p.IsArchived }), nil
}

func (r *memPromptRepo) filter(keep func(*model.Prompt) bool) []*model.Prompt {
	out := []*model.Prompt{}
	for _, p := range r.prompts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memPromptRepo) SetReported(ctx context.Context, id string, reported bool) error {
	p, ok := r.prompts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsReported = reported
	return nil
}

func (r *memPromptRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	p, ok := r.prompts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsArchived = archived
	return nil
}

func (r *memPromptRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.prompts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.prompts, id)
	return nil
}

type memResponseRepo struct {
	responses []*model.UserResponse
	nextID    int
}

func newMemResponseRepo() *memResponseRepo {
	return &memResponseRepo{}
}

// Create mimics the unique (userId, promptId) index
func (r *memResponseRepo) Create(ctx context.Context, response *model.UserResponse) error {
	for _, existing := range r.responses {
		if existing.UserID == response.UserID && existing.PromptID == response.PromptID {
			return repository.ErrDuplicateKey
		}
	}
	if response.ID == "" {
		r.nextID++
		response.ID = fmt.Sprintf("r%d", r.nextID)
	}
	if response.RespondedAt.IsZero() {
		response.RespondedAt = time.Now()
	}
	cp := *response
	r.responses = append(r.responses, &cp)
	return nil
}

func (r *memResponseRepo) GetByUserAndPrompt(ctx context.Context, userID, promptID string) (*model.UserResponse, error) {
	for _, resp := range r.responses {
		if resp.UserID == userID && resp.PromptID == promptID {
			cp := *resp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memResponseRepo) GetByPromptID(ctx context.Context, promptID string) ([]*model.UserResponse, error) {
	out := []*model.UserResponse{}
	for _, resp := range r.responses {
		if resp.PromptID == promptID {
			cp := *resp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memResponseRepo) DeleteByPromptID(ctx context.Context, promptID string) (int64, error) {
	kept := r.responses[:0]
	var deleted int64
	for _, resp := range r.responses {
		if resp.PromptID == promptID {
			deleted++
			continue
		}
		kept = append(kept, resp)
	}
	r.responses = kept
	return deleted, nil
}

// permissiveClassifier never flags anything
type permissiveClassifier struct{}

func (permissiveClassifier) Classify(ctx context.Context, text string) ([]ModerationCategory, error) {
	return nil, nil
}
