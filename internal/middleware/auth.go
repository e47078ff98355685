package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
	// TokenIDKey is the context key for the ID of the token the request used
	TokenIDKey contextKey = "token_id"
)

// TokenValidator resolves a raw bearer token to its token record
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.AuthToken, error)
}

// TokenAuthMiddleware authenticates requests with opaque bearer tokens
type TokenAuthMiddleware struct {
	validator TokenValidator
}

// NewTokenAuthMiddleware creates a new TokenAuthMiddleware
func NewTokenAuthMiddleware(validator TokenValidator) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{validator: validator}
}

// Authenticate returns an Echo middleware that validates the Authorization
// header. Both "Bearer <token>" and "Token <token>" are accepted.
func (m *TokenAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorizedError(c, "Authentication credentials were not provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !isTokenScheme(parts[0]) {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			authToken, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					log.Debug().Msg("Token not found or revoked")
					return unauthorizedError(c, "Invalid token")
				}
				log.Error().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Token validation failed")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, authToken.UserID)
			ctx = context.WithValue(ctx, TokenIDKey, authToken.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func isTokenScheme(scheme string) bool {
	return strings.EqualFold(scheme, "bearer") || strings.EqualFold(scheme, "token")
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetTokenID extracts the current token's ID from the context
func GetTokenID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(TokenIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
