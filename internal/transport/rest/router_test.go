package rest

import (
	"bytes"
	"campuspolls/internal/model"
	"campuspolls/internal/repository"
	"campuspolls/internal/service"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// In-memory repositories backing a full router for endpoint tests.

type memUserRepo struct {
	users  map[string]*model.User
	nextID int
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
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	for _, u := range r.users {
		if u.Subject == subject {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
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

func (r *memPromptRepo) Create(ctx context.Context, prompt *model.Prompt) error {
	if prompt.ID == "" {
		r.nextID++
		prompt.ID = fmt.Sprintf("p%d", r.nextID)
	}
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = time.Now()
	}
	r.prompts[prompt.ID] = prompt
	return nil
}

func (r *memPromptRepo) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	return r.prompts[id], nil
}

func (r *memPromptRepo) ListFeed(ctx context.Context) ([]*model.Prompt, error) {
	out := []*model.Prompt{}
	for _, p := range r.prompts {
		if !p.IsArchived && !p.IsAutoFlagged {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPromptRepo) ListReported(ctx context.Context) ([]*model.Prompt, error) {
	out := []*model.Prompt{}
	for _, p := range r.prompts {
		if p.IsReported {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPromptRepo) ListArchived(ctx context.Context) ([]*model.Prompt, error) {
	out := []*model.Prompt{}
	for _, p := range r.prompts {
		if p.IsArchived {
			out = append(out, p)
		}
	}
	return out, nil
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

func (r *memResponseRepo) Create(ctx context.Context, response *model.UserResponse) error {
	for _, existing := range r.responses {
		if existing.UserID == response.UserID && existing.PromptID == response.PromptID {
			return repository.ErrDuplicateKey
		}
	}
	r.nextID++
	response.ID = fmt.Sprintf("r%d", r.nextID)
	if response.RespondedAt.IsZero() {
		response.RespondedAt = time.Now()
	}
	r.responses = append(r.responses, response)
	return nil
}

func (r *memResponseRepo) GetByUserAndPrompt(ctx context.Context, userID, promptID string) (*model.UserResponse, error) {
	for _, resp := range r.responses {
		if resp.UserID == userID && resp.PromptID == promptID {
			return resp, nil
		}
	}
	return nil, nil
}

func (r *memResponseRepo) GetByPromptID(ctx context.Context, promptID string) ([]*model.UserResponse, error) {
	out := []*model.UserResponse{}
	for _, resp := range r.responses {
		if resp.PromptID == promptID {
			out = append(out, resp)
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

// toxicClassifier flags any fragment containing "toxic"
type toxicClassifier struct{}

func (toxicClassifier) Classify(ctx context.Context, text string) ([]service.ModerationCategory, error) {
	if strings.Contains(strings.ToLower(text), "toxic") {
		return []service.ModerationCategory{{Name: "Toxic", Confidence: 0.9}}, nil
	}
	return nil, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type fixture struct {
	router  http.Handler
	authSvc *service.AuthService
	users   *memUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userRepo := &memUserRepo{users: map[string]*model.User{}}
	promptRepo := &memPromptRepo{prompts: map[string]*model.Prompt{}}
	responseRepo := &memResponseRepo{}

	authSvc := service.NewAuthService("test-secret")
	userSvc := service.NewUserService(userRepo)
	moderationSvc := service.NewModerationService(toxicClassifier{}, 0.7)
	promptSvc := service.NewPromptService(promptRepo, responseRepo, moderationSvc, nil)
	statsSvc := service.NewStatsService(responseRepo, userRepo, nil, 2)
	responseSvc := service.NewResponseService(responseRepo, promptRepo, nil)

	router := NewRouter(&Container{
		AuthService:     authSvc,
		UserService:     userSvc,
		PromptService:   promptSvc,
		ResponseService: responseSvc,
		StatsService:    statsSvc,
		WebhookSecret:   "hook-secret",
	})

	return &fixture{router: router, authSvc: authSvc, users: userRepo}
}

func (f *fixture) addUser(t *testing.T, subject string, isMod bool) string {
	t.Helper()
	user := &model.User{
		Subject:        subject,
		Email:          subject + "@campus.edu",
		Gender:         "Female",
		Position:       "Undergraduate",
		BirthYear:      2004,
		AccountCreated: true,
		IsMod:          isMod,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("add user: %v", err)
	}
	return user.ID
}

func (f *fixture) token(t *testing.T, subject string) string {
	t.Helper()
	token, err := f.authSvc.GenerateToken(subject, subject+"@campus.edu")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, &env
}

func TestMissingTokenUnauthorized(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, "GET", "/v1/feed", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestWebhookProvisionsAccount(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("POST", "/v1/webhooks/identity",
		strings.NewReader(`{"subject":"auth0|new","email":"new@campus.edu"}`))
	req.Header.Set("X-Webhook-Secret", "hook-secret")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// Wrong secret is rejected
	req = httptest.NewRequest("POST", "/v1/webhooks/identity", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "wrong")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", rec.Code)
	}
}

func TestFlaggedPromptGetsPendingReviewMessage(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "auth0|alex", false)
	token := f.token(t, "auth0|alex")

	rec, env := f.do(t, "POST", "/v1/prompts", token, model.CreatePromptRequest{
		Question: "Pineapple on pizza?",
		Options:  []string{"Yes", "toxic option"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
	if !strings.Contains(env.Message, "pending review") {
		t.Errorf("message %q should mention pending review", env.Message)
	}

	var prompt model.Prompt
	json.Unmarshal(env.Data, &prompt)
	if !prompt.IsAutoFlagged {
		t.Error("prompt should persist with isAutoFlagged=true")
	}

	// The flagged prompt stays out of the feed
	_, feedEnv := f.do(t, "GET", "/v1/feed", token, nil)
	if strings.Contains(string(feedEnv.Data), prompt.ID) {
		t.Error("flagged prompt leaked into the default feed")
	}
}

func TestDuplicateResponseConflictEnvelope(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "auth0|alex", false)
	token := f.token(t, "auth0|alex")

	_, env := f.do(t, "POST", "/v1/prompts", token, model.CreatePromptRequest{
		Question: "Pineapple on pizza?", Options: []string{"Yes", "No"},
	})
	var prompt model.Prompt
	json.Unmarshal(env.Data, &prompt)

	rec, _ := f.do(t, "POST", "/v1/prompts/"+prompt.ID+"/responses", token,
		model.SubmitResponseRequest{SelectedResponse: "Yes"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first response: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec, env = f.do(t, "POST", "/v1/prompts/"+prompt.ID+"/responses", token,
		model.SubmitResponseRequest{SelectedResponse: "No"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate response: status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if env.Success {
		t.Error("duplicate response should not be a success")
	}
	if !strings.Contains(env.Message, "already responded") {
		t.Errorf("message %q should contain %q", env.Message, "already responded")
	}

	var existing model.UserResponse
	json.Unmarshal(env.Data, &existing)
	if existing.SelectedResponse != "Yes" {
		t.Errorf("envelope should carry the original answer, got %+v", existing)
	}
}

func TestStatsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "auth0|a", false)
	f.addUser(t, "auth0|b", false)
	f.addUser(t, "auth0|c", false)
	tokenA := f.token(t, "auth0|a")

	_, env := f.do(t, "POST", "/v1/prompts", tokenA, model.CreatePromptRequest{
		Question: "Pizza?", Options: []string{"Yes", "No"},
	})
	var prompt model.Prompt
	json.Unmarshal(env.Data, &prompt)

	for subject, answer := range map[string]string{"auth0|a": "Yes", "auth0|b": "Yes", "auth0|c": "No"} {
		rec, _ := f.do(t, "POST", "/v1/prompts/"+prompt.ID+"/responses", f.token(t, subject),
			model.SubmitResponseRequest{SelectedResponse: answer})
		if rec.Code != http.StatusCreated {
			t.Fatalf("response from %s: status = %d", subject, rec.Code)
		}
	}

	rec, env := f.do(t, "GET", "/v1/prompts/"+prompt.ID+"/stats", tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status = %d: %s", rec.Code, rec.Body.String())
	}

	var stats model.PromptStats
	json.Unmarshal(env.Data, &stats)
	if stats.ResponseCount != 3 {
		t.Errorf("responseCount = %d, want 3", stats.ResponseCount)
	}
	if stats.AnswerStats["Yes"].Count != 2 || stats.AnswerStats["No"].Count != 1 {
		t.Errorf("unexpected answer stats: %+v", stats.AnswerStats)
	}
}

func TestModeratorRoutesRequireMod(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "auth0|user", false)
	f.addUser(t, "auth0|mod", true)
	userToken := f.token(t, "auth0|user")
	modToken := f.token(t, "auth0|mod")

	_, env := f.do(t, "POST", "/v1/prompts", userToken, model.CreatePromptRequest{
		Question: "Q?", Options: []string{"Yes", "No"},
	})
	var prompt model.Prompt
	json.Unmarshal(env.Data, &prompt)

	rec, _ := f.do(t, "POST", "/v1/prompts/"+prompt.ID+"/archive", userToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-mod archive: status = %d, want 403", rec.Code)
	}

	rec, _ = f.do(t, "POST", "/v1/prompts/"+prompt.ID+"/archive", modToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("mod archive: status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec, env = f.do(t, "GET", "/v1/prompts/archived", modToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("archived view: status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), prompt.ID) {
		t.Error("archived view should contain the archived prompt")
	}

	rec, _ = f.do(t, "DELETE", "/v1/prompts/"+prompt.ID, modToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("mod delete: status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("PATCH", "/v1/webhooks/identity", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	var env envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Success || env.Error == "" {
		t.Errorf("expected failure envelope, got %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
