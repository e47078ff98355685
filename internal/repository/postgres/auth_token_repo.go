package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthTokenRepository implements domain.AuthTokenRepository using PostgreSQL
type AuthTokenRepository struct {
	pool *pgxpool.Pool
}

// NewAuthTokenRepository creates a new AuthTokenRepository
func NewAuthTokenRepository(pool *pgxpool.Pool) *AuthTokenRepository {
	return &AuthTokenRepository{pool: pool}
}

// Create stores a token hash and fills in the generated ID and timestamp
func (r *AuthTokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO auth_tokens (user_id, token_hash, token_prefix)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		token.UserID, token.TokenHash, token.TokenPrefix,
	).Scan(&token.ID, &token.CreatedAt)
}

// GetByHash retrieves an active (non-revoked) token by its hash
func (r *AuthTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, token_prefix, last_used_at, created_at, revoked_at
		FROM auth_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`,
		hash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.TokenPrefix, &t.LastUsedAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return &t, nil
}

// Revoke marks a user's token as revoked
func (r *AuthTokenRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE auth_tokens SET revoked_at = NOW()
		WHERE user_id = $1 AND id = $2 AND revoked_at IS NULL`,
		userID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

// UpdateLastUsed records the time a token was last presented
func (r *AuthTokenRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE auth_tokens SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}
