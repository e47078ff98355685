package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenPrefix is the prefix for all issued auth tokens
	TokenPrefix = "bdg_"
	// tokenRandomBytes is the number of random bytes for the token (32 bytes = 256 bits)
	tokenRandomBytes = 32
	// tokenPrefixLength is the length of the displayable prefix (e.g., "bdg_abcdefgh...")
	tokenPrefixLength = 8
)

// AuthService registers users and issues, validates and revokes their
// opaque bearer tokens
type AuthService struct {
	userRepo   domain.UserRepository
	tokenRepo  domain.AuthTokenRepository
	bcryptCost int

	// compared against when the username is unknown so both paths cost the same
	dummyHash []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokenRepo domain.AuthTokenRepository, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("budgetly-dummy-password"), bcryptCost)
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}
}

// RegisterInput holds the input for registering a user
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// AuthResult is returned by Register and Login. Token is the raw bearer
// token and is only ever available here.
type AuthResult struct {
	User      *domain.User
	Token     string
	TokenInfo *domain.AuthToken
}

// Register creates a user and issues the first token
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.ErrUsernameRequired
	}
	if len(username) > domain.MaxUsernameLength {
		return nil, domain.ErrUsernameTooLong
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if len(input.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	if input.Password != input.Password2 {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("User registered")

	return s.issueToken(ctx, user)
}

// Login checks the credentials and issues a new token
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug().Str("user_id", user.ID.String()).Msg("Password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

// Logout revokes the token the request was authenticated with
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, tokenID uuid.UUID) error {
	if err := s.tokenRepo.Revoke(ctx, userID, tokenID); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Str("token_id", tokenID.String()).Msg("Token revoked")
	return nil
}

// ValidateToken resolves a raw bearer token to its active token record
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthToken, error) {
	if !strings.HasPrefix(token, TokenPrefix) || len(token) == len(TokenPrefix) {
		return nil, domain.ErrInvalidToken
	}

	authToken, err := s.tokenRepo.GetByHash(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}

	// Best effort; a failed timestamp update must not fail the request
	go func(id uuid.UUID) {
		if updateErr := s.tokenRepo.UpdateLastUsed(context.Background(), id); updateErr != nil {
			log.Error().Err(updateErr).Str("token_id", id.String()).Msg("Failed to update last_used_at")
		}
	}(authToken.ID)

	return authToken, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (*AuthResult, error) {
	rawToken, err := generateSecureToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate secure token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	fullToken := TokenPrefix + rawToken

	token := &domain.AuthToken{
		UserID:      user.ID,
		TokenHash:   hashToken(fullToken),
		TokenPrefix: TokenPrefix + rawToken[:tokenPrefixLength] + "...",
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to store auth token")
		return nil, err
	}

	return &AuthResult{User: user, Token: fullToken, TokenInfo: token}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken() (string, error) {
	bytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// Use URL-safe base64 encoding without padding
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// hashToken creates a SHA-256 hash of the token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash)
}
