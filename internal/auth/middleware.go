package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserLookup confirms that a token subject still has an account
type UserLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserLookup
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, users UserLookup, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate requires a valid Bearer token for an existing user
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Not authorized, no token")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			unauthorized(w, "Not authorized, invalid authorization header")
			return
		}

		userCtx, err := m.tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			unauthorized(w, "Not authorized, token failed")
			return
		}

		if m.users != nil {
			exists, err := m.users.Exists(r.Context(), userCtx.UserID)
			if err != nil {
				m.logger.Error("failed to look up token subject", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{Message: domain.MsgServerError})
				return
			}
			if !exists {
				unauthorized(w, "Not authorized, user not found")
				return
			}
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, domain.ErrorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
