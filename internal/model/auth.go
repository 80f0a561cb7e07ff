package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims issued against an identity-provider account
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller resolved by the auth middleware
type Principal struct {
	UserID  string
	Subject string
	IsMod   bool
}

// IdentityWebhookRequest is the identity-provider account-created payload
type IdentityWebhookRequest struct {
	Subject   string `json:"subject"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
