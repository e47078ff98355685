package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://budgetly.app/errors/validation"
	ErrorTypeNotFound     = "https://budgetly.app/errors/not-found"
	ErrorTypeUnauthorized = "https://budgetly.app/errors/unauthorized"
	ErrorTypeConflict     = "https://budgetly.app/errors/conflict"
	ErrorTypeInternal     = "https://budgetly.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// errorFields names the request field a validation error belongs to
var errorFields = map[error]string{
	domain.ErrNameRequired:        "name",
	domain.ErrNameTooLong:         "name",
	domain.ErrInvalidCategoryKind: "type",
	domain.ErrInvalidColor:        "color",
	domain.ErrDescriptionLong:     "description",
	domain.ErrInvalidAmount:       "amount",
	domain.ErrInvalidDate:         "date",
	domain.ErrInvalidDateRange:    "end_date",
	domain.ErrInvalidCategory:     "category",
	domain.ErrCategoryRequired:    "category",
	domain.ErrInvalidPeriod:       "period",
	domain.ErrUsernameRequired:    "username",
	domain.ErrUsernameTooLong:     "username",
	domain.ErrInvalidEmail:        "email",
	domain.ErrPasswordTooShort:    "password",
	domain.ErrPasswordMismatch:    "password2",
}

// errorDetail returns the specific part of a domain error message, dropping
// the kind and any context added by wrapping
func errorDetail(err, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// handleServiceError maps a service error to a problem response by its kind.
// Anything that is not a domain error is logged and answered with a 500
// carrying the given message.
func handleServiceError(c echo.Context, err error, internalMessage string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		detail := capitalize(errorDetail(err, domain.ErrValidation))
		var fieldErrors []ValidationError
		if field, ok := errorField(err); ok {
			fieldErrors = []ValidationError{{Field: field, Message: detail}}
		}
		return NewValidationError(c, "Validation failed", fieldErrors)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, capitalize(errorDetail(err, domain.ErrNotFound)))
	case errors.Is(err, domain.ErrConflict):
		return NewConflictError(c, capitalize(errorDetail(err, domain.ErrConflict)))
	case errors.Is(err, domain.ErrUnauthenticated):
		return NewUnauthorizedError(c, capitalize(errorDetail(err, domain.ErrUnauthenticated)))
	}

	log.Error().
		Err(err).
		Str("user_id", middleware.GetUserID(c).String()).
		Str("path", c.Request().URL.Path).
		Msg(internalMessage)
	return NewInternalError(c, internalMessage)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
