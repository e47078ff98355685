package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/middleware"
	"github.com/dafibh/budgetly/budgetly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	DateJoined string `json:"date_joined"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a user
// @Description Create an account and return it with a fresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		User:    toUserResponse(result.User),
		Token:   result.Token,
		Message: "User registered successfully",
	})
}

// Login godoc
// @Summary Log in
// @Description Exchange username and password for a new token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var missing []ValidationError
	if req.Username == "" {
		missing = append(missing, ValidationError{Field: "username", Message: "This field is required"})
	}
	if req.Password == "" {
		missing = append(missing, ValidationError{Field: "password", Message: "This field is required"})
	}
	if len(missing) > 0 {
		return NewValidationError(c, "Validation failed", missing)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return handleServiceError(c, err, "Failed to log in")
	}

	log.Info().Str("user_id", result.User.ID.String()).Str("token_prefix", result.TokenInfo.TokenPrefix).Msg("User logged in")

	return c.JSON(http.StatusOK, AuthResponse{
		User:    toUserResponse(result.User),
		Token:   result.Token,
		Message: "Login successful",
	})
}

// Logout godoc
// @Summary Log out
// @Description Revoke the token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ProblemDetails
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := middleware.GetUserID(c)
	tokenID := middleware.GetTokenID(c)

	if err := h.authService.Logout(c.Request().Context(), userID, tokenID); err != nil {
		return handleServiceError(c, err, "Failed to log out")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.CreatedAt.Format(time.RFC3339),
	}
}
