package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{"validation", domain.ErrNameRequired, http.StatusBadRequest, ErrorTypeValidation, "Validation failed"},
		{"not found", domain.ErrBudgetNotFound, http.StatusNotFound, ErrorTypeNotFound, "Budget not found"},
		{"conflict", domain.ErrCategoryAlreadyExists, http.StatusConflict, ErrorTypeConflict, "Category with this name already exists"},
		{"unauthenticated", domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrorTypeUnauthorized, "Invalid credentials"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrTransactionNotFound), http.StatusNotFound, ErrorTypeNotFound, "Transaction not found"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, ErrorTypeInternal, "Something broke"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(echo.New(), http.MethodGet, "/api/v1/budgets/1", "")

			require.NoError(t, handleServiceError(c, tt.err, "Something broke"))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var problem ProblemDetails
			decodeJSON(t, rec, &problem)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantDetail, problem.Detail)
			assert.Equal(t, "/api/v1/budgets/1", problem.Instance)
		})
	}
}

func TestHandleServiceError_FieldOverride(t *testing.T) {
	c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/budgets", "")

	require.NoError(t, handleServiceError(c, withField("start_date", domain.ErrInvalidDateFmt), "unused"))

	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "start_date", problem.Errors[0].Field)
	assert.Equal(t, "Date has wrong format, use YYYY-MM-DD", problem.Errors[0].Message)
}
