package model

import "time"

// UserResponse is one user's recorded answer selection for one prompt.
// At most one exists per (userId, promptId), enforced by a unique
// compound index on the responses collection.
type UserResponse struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	UserID           string    `json:"userId" bson:"userId"`
	PromptID         string    `json:"promptId" bson:"promptId"`
	SelectedResponse string    `json:"selectedResponse" bson:"selectedResponse"`
	RespondedAt      time.Time `json:"respondedAt" bson:"respondedAt"`
}

// SubmitResponseRequest is the request body for POST /v1/prompts/{id}/responses
type SubmitResponseRequest struct {
	SelectedResponse string `json:"selectedResponse"`
}
