package service

import (
	"bytes"
	"campuspolls/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ModerationCategory is one classifier verdict for a text fragment
type ModerationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
}

// Classifier scores a text fragment against content categories
type Classifier interface {
	Classify(ctx context.Context, text string) ([]ModerationCategory, error)
}

// ModerationService screens text through a classifier and applies the
// confidence threshold. Any classifier failure is treated as an
// inappropriate verdict: over-flagging is preferred to publishing
// harmful content.
type ModerationService struct {
	classifier Classifier
	threshold  float64
}

// NewModerationService creates a new moderation service
func NewModerationService(classifier Classifier, threshold float64) *ModerationService {
	return &ModerationService{
		classifier: classifier,
		threshold:  threshold,
	}
}

// CheckText returns true if the fragment is inappropriate
func (s *ModerationService) CheckText(ctx context.Context, text string) bool {
	categories, err := s.classifier.Classify(ctx, text)
	if err != nil {
		log.Printf("[Moderation] classifier error, failing closed: %v", err)
		return true
	}

	for _, c := range categories {
		if c.Confidence >= s.threshold {
			return true
		}
	}
	return false
}

// CheckTexts screens each non-empty fragment, short-circuiting on the
// first inappropriate one.
func (s *ModerationService) CheckTexts(ctx context.Context, texts []string) bool {
	for _, text := range texts {
		if text == "" {
			continue
		}
		if s.CheckText(ctx, text) {
			return true
		}
	}
	return false
}

// ModerationClient calls the external text-classification API
type ModerationClient struct {
	config *config.ModerationConfig
	client *http.Client
}

// NewModerationClient creates a new classifier client
func NewModerationClient(cfg *config.ModerationConfig) *ModerationClient {
	return &ModerationClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Categories []ModerationCategory `json:"categories"`
}

// Classify scores a text fragment. Errors here (network, non-2xx,
// malformed body) are converted to a fail-closed verdict by the caller.
func (c *ModerationClient) Classify(ctx context.Context, text string) ([]ModerationCategory, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier API error %d: %s", resp.StatusCode, string(respBody))
	}

	var result classifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	return result.Categories, nil
}

// NoopClassifier flags nothing. Used when no classifier API key is
// configured (local development).
type NoopClassifier struct{}

func (NoopClassifier) Classify(ctx context.Context, text string) ([]ModerationCategory, error) {
	return nil, nil
}
