package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthToken is an opaque bearer token issued at registration or login
type AuthToken struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	TokenHash   string     `json:"-"` // Never expose hash
	TokenPrefix string     `json:"token_prefix"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// AuthTokenRepository defines the interface for auth token persistence
type AuthTokenRepository interface {
	Create(ctx context.Context, token *AuthToken) error
	GetByHash(ctx context.Context, hash string) (*AuthToken, error)
	Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
}
