package middleware

import (
	"campuspolls/internal/model"
	"campuspolls/internal/service"
	"context"
	"net/http"
	"strings"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware resolves JWTs to an authenticated principal
type AuthMiddleware struct {
	authSvc *service.AuthService
	userSvc *service.UserService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService, userSvc *service.UserService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, userSvc: userSvc}
}

// RequireUser validates the JWT, resolves its subject to a user record,
// and injects the principal into the request context.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// RequireMod additionally checks moderator privileges
func (m *AuthMiddleware) RequireMod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if !principal.IsMod {
			http.Error(w, `{"success":false,"error":"moderator privileges required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*model.Principal, bool) {
	token := extractBearerToken(r)
	if token == "" {
		// Try query param for WebSocket
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, `{"success":false,"error":"missing authorization"}`, http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, `{"success":false,"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return nil, false
	}

	user, err := m.userSvc.GetBySubject(r.Context(), claims.Subject)
	if err != nil {
		http.Error(w, `{"success":false,"error":"failed to resolve account"}`, http.StatusInternalServerError)
		return nil, false
	}
	if user == nil {
		http.Error(w, `{"success":false,"error":"unknown account"}`, http.StatusUnauthorized)
		return nil, false
	}

	return &model.Principal{
		UserID:  user.ID,
		Subject: user.Subject,
		IsMod:   user.IsMod,
	}, true
}

func withPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(ctx context.Context) *model.Principal {
	if v := ctx.Value(principalKey); v != nil {
		return v.(*model.Principal)
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
