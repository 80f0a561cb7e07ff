package model

import "time"

// MaxOptions is the maximum number of answer options on a prompt
const MaxOptions = 4

// Prompt is a multiple-choice question submitted by a user
type Prompt struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Question      string    `json:"question" bson:"question"`
	Options       []string  `json:"options" bson:"options"` // 1..4 answer options
	CreatorID     string    `json:"creatorId" bson:"creatorId"`
	IsReported    bool      `json:"isReported" bson:"isReported"`
	IsArchived    bool      `json:"isArchived" bson:"isArchived"`
	IsAutoFlagged bool      `json:"isAutoFlagged" bson:"isAutoFlagged"` // Moderation gate verdict at submission
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// HasOption reports whether text matches one of the prompt's answer options
func (p *Prompt) HasOption(text string) bool {
	for _, opt := range p.Options {
		if opt == text {
			return true
		}
	}
	return false
}

// CreatePromptRequest is the request body for POST /v1/prompts
type CreatePromptRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}
