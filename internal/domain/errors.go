package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so callers can
// classify with errors.Is without knowing the specific error.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Domain errors
var (
	ErrNameRequired     = kindError(ErrValidation, "name is required")
	ErrNameTooLong      = kindError(ErrValidation, "name exceeds maximum length")
	ErrInvalidAmount    = kindError(ErrValidation, "amount must have at most 10 digits with 2 decimal places")
	ErrInvalidDate      = kindError(ErrValidation, "date is required")
	ErrInvalidDateFmt   = kindError(ErrValidation, "date has wrong format, use YYYY-MM-DD")
	ErrInvalidID        = kindError(ErrValidation, "id must be a positive integer")
	ErrDescriptionLong  = kindError(ErrValidation, "description exceeds maximum length")
	ErrInvalidDateRange = kindError(ErrValidation, "end date must not be before start date")
	ErrInvalidText      = kindError(ErrValidation, "value must be a string")

	ErrCategoryNotFound      = kindError(ErrNotFound, "category not found")
	ErrCategoryAlreadyExists = kindError(ErrConflict, "category with this name already exists")
	ErrInvalidCategoryKind   = kindError(ErrValidation, "category kind must be income or expense")
	ErrInvalidColor          = kindError(ErrValidation, "color must be a hex value like #3B82F6")
	ErrInvalidCategory       = kindError(ErrValidation, "category does not exist")

	ErrTransactionNotFound = kindError(ErrNotFound, "transaction not found")

	ErrBudgetNotFound   = kindError(ErrNotFound, "budget not found")
	ErrInvalidPeriod    = kindError(ErrValidation, "period must be weekly, monthly or yearly")
	ErrCategoryRequired = kindError(ErrValidation, "category is required")

	ErrUserNotFound       = kindError(ErrNotFound, "user not found")
	ErrUserAlreadyExists  = kindError(ErrConflict, "a user with this username or email already exists")
	ErrUsernameRequired   = kindError(ErrValidation, "username is required")
	ErrUsernameTooLong    = kindError(ErrValidation, "username exceeds maximum length")
	ErrInvalidEmail       = kindError(ErrValidation, "a valid email address is required")
	ErrPasswordTooShort   = kindError(ErrValidation, "password is too short")
	ErrPasswordMismatch   = kindError(ErrValidation, "password fields didn't match")
	ErrInvalidCredentials = kindError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidToken       = kindError(ErrUnauthenticated, "invalid or revoked token")
)

// Validation constants
const (
	MaxCategoryNameLength    = 100
	MaxUsernameLength        = 150
	MaxDescriptionLength     = 1000
	MinPasswordLength        = 8
	MaxAmountDigits          = 10
	AmountDecimalPlaces      = 2
	DefaultCategoryColorCode = "#3B82F6"
)

func kindError(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}
