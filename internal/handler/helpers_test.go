package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/budgetly/budgetly-backend/internal/middleware"
	"github.com/dafibh/budgetly/budgetly-backend/internal/service"
	"github.com/dafibh/budgetly/budgetly-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// setupAuthContext sets the values TokenAuthMiddleware would set
func setupAuthContext(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.TokenIDKey, uuid.New())
	c.SetRequest(c.Request().WithContext(ctx))
}

// newJSONContext builds an echo context for a JSON request
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

type testHandlers struct {
	store       *testutil.MockStore
	category    *CategoryHandler
	transaction *TransactionHandler
	budget      *BudgetHandler
}

func newTestHandlers() *testHandlers {
	store := testutil.NewMockStore()
	return &testHandlers{
		store:       store,
		category:    NewCategoryHandler(service.NewCategoryService(store.Categories)),
		transaction: NewTransactionHandler(service.NewTransactionService(store.Transactions, store.Categories)),
		budget:      NewBudgetHandler(service.NewBudgetService(store.Budgets, store.Categories)),
	}
}

// mustCreateCategory creates a category through the handler and returns its ID
func (h *testHandlers) mustCreateCategory(t *testing.T, userID uuid.UUID, body string) int32 {
	t.Helper()
	c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/categories", body)
	setupAuthContext(c, userID)
	require.NoError(t, h.category.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CategoryResponse
	decodeJSON(t, rec, &resp)
	return resp.ID
}

// mustCreateTransaction creates a transaction through the handler
func (h *testHandlers) mustCreateTransaction(t *testing.T, userID uuid.UUID, body string) TransactionResponse {
	t.Helper()
	c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/transactions", body)
	setupAuthContext(c, userID)
	require.NoError(t, h.transaction.CreateTransaction(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp TransactionResponse
	decodeJSON(t, rec, &resp)
	return resp
}
