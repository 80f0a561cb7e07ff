package service

import (
	"campuspolls/internal/model"
	"errors"
)

var (
	// ErrValidation marks client errors from missing or malformed fields
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups of unknown IDs
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken is returned for unparseable or expired JWTs
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AlreadyRespondedError is returned when a user already answered a prompt.
// It carries the existing response so clients can render the prior answer
// instead of erroring blindly.
type AlreadyRespondedError struct {
	Existing *model.UserResponse
}

func (e *AlreadyRespondedError) Error() string {
	return "already responded to this prompt"
}
