package model

import "time"

// User is an account linked to an external identity-provider subject
type User struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Subject        string    `json:"subject" bson:"subject"` // Identity-provider ID, unique
	Email          string    `json:"email" bson:"email"`
	FirstName      string    `json:"firstName" bson:"firstName"`
	LastName       string    `json:"lastName" bson:"lastName"`
	Gender         string    `json:"gender" bson:"gender"`
	Position       string    `json:"position" bson:"position"` // Academic position, e.g. "Undergraduate"
	BirthYear      int       `json:"birthYear" bson:"birthYear"`
	AccountCreated bool      `json:"accountCreated" bson:"accountCreated"` // Profile completion done
	IsMod          bool      `json:"isMod" bson:"isMod"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// CompleteProfileRequest is the request body for PUT /v1/me
type CompleteProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Position  string `json:"position"`
	BirthYear int    `json:"birthYear"`
}
