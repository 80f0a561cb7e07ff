package service

import (
	"campuspolls/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService validates tokens minted against the identity provider's
// shared secret. The subject claim is the identity-provider ID that
// correlates users to prompts and responses.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// GenerateToken mints a signed token for a subject. Used by cmd/seed and
// local development; in production clients obtain tokens from the
// identity provider directly.
func (s *AuthService) GenerateToken(subject, email string) (string, error) {
	claims := &model.UserClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a user JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
