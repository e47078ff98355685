package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *testHandlers) mustCreateBudget(t *testing.T, userID uuid.UUID, body string) BudgetResponse {
	t.Helper()
	c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/budgets", body)
	setupAuthContext(c, userID)
	require.NoError(t, h.budget.CreateBudget(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp BudgetResponse
	decodeJSON(t, rec, &resp)
	return resp
}

func (h *testHandlers) getBudget(t *testing.T, userID uuid.UUID, id int32) BudgetResponse {
	t.Helper()
	c, rec := newJSONContext(echo.New(), http.MethodGet, "/api/v1/budgets/", "")
	setupAuthContext(withID(c, fmt.Sprint(id)), userID)
	require.NoError(t, h.budget.GetBudget(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BudgetResponse
	decodeJSON(t, rec, &resp)
	return resp
}

func TestCreateBudget_Success(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	categoryID := h.mustCreateCategory(t, userID, `{"name": "Groceries", "type": "expense"}`)

	budget := h.mustCreateBudget(t, userID, fmt.Sprintf(
		`{"category": %d, "amount": "500.00", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, categoryID))

	assert.Equal(t, categoryID, budget.Category)
	assert.Equal(t, "Groceries", budget.CategoryName)
	assert.Equal(t, "500.00", budget.Amount)
	assert.Equal(t, "monthly", budget.Period)
	assert.Equal(t, "2024-03-01", budget.StartDate)
	assert.Equal(t, "2024-03-31", budget.EndDate)
	assert.Equal(t, 0.0, budget.Spent)
	assert.Equal(t, 500.0, budget.Remaining)
	assert.False(t, budget.IsOverBudget)
}

func TestBudget_OverBudgetScenario(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	groceries := h.mustCreateCategory(t, userID, `{"name": "Groceries", "type": "expense"}`)

	budget := h.mustCreateBudget(t, userID, fmt.Sprintf(
		`{"category": %d, "amount": "100.00", "period": "monthly", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, groceries))

	h.mustCreateTransaction(t, userID, fmt.Sprintf(`{"category": %d, "amount": "30.00", "date": "2024-03-02"}`, groceries))
	h.mustCreateTransaction(t, userID, fmt.Sprintf(`{"category": %d, "amount": "20.00", "date": "2024-03-10"}`, groceries))

	got := h.getBudget(t, userID, budget.ID)
	assert.Equal(t, 50.0, got.Spent)
	assert.Equal(t, 50.0, got.Remaining)
	assert.False(t, got.IsOverBudget)

	h.mustCreateTransaction(t, userID, fmt.Sprintf(`{"category": %d, "amount": "60.00", "date": "2024-03-20"}`, groceries))

	got = h.getBudget(t, userID, budget.ID)
	assert.Equal(t, 110.0, got.Spent)
	assert.Equal(t, -10.0, got.Remaining)
	assert.True(t, got.IsOverBudget)
}

func TestCreateBudget_ValidationErrors(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	categoryID := h.mustCreateCategory(t, userID, `{"name": "Groceries", "type": "expense"}`)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing category", `{"amount": "1.00", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, "category"},
		{"bad period", fmt.Sprintf(`{"category": %d, "amount": "1.00", "period": "daily", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, categoryID), "period"},
		{"missing start", fmt.Sprintf(`{"category": %d, "amount": "1.00", "end_date": "2024-03-31"}`, categoryID), "start_date"},
		{"bad end", fmt.Sprintf(`{"category": %d, "amount": "1.00", "start_date": "2024-03-01", "end_date": "31-03-2024"}`, categoryID), "end_date"},
		{"inverted", fmt.Sprintf(`{"category": %d, "amount": "1.00", "start_date": "2024-03-31", "end_date": "2024-03-01"}`, categoryID), "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/budgets", tt.body)
			setupAuthContext(c, userID)

			require.NoError(t, h.budget.CreateBudget(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem ProblemDetails
			decodeJSON(t, rec, &problem)
			require.Len(t, problem.Errors, 1, rec.Body.String())
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
}

func TestGetBudgets_OnlyOwn(t *testing.T) {
	h := newTestHandlers()
	alice, bob := uuid.New(), uuid.New()
	aliceCategory := h.mustCreateCategory(t, alice, `{"name": "Food", "type": "expense"}`)
	h.mustCreateBudget(t, alice, fmt.Sprintf(`{"category": %d, "amount": "1.00", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, aliceCategory))

	c, rec := newJSONContext(echo.New(), http.MethodGet, "/api/v1/budgets", "")
	setupAuthContext(c, bob)

	require.NoError(t, h.budget.GetBudgets(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateBudget_Patch(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	categoryID := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)
	budget := h.mustCreateBudget(t, userID, fmt.Sprintf(`{"category": %d, "amount": "10.00", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, categoryID))

	c, rec := newJSONContext(echo.New(), http.MethodPatch, "/api/v1/budgets/", `{"amount": 25, "period": "weekly"}`)
	setupAuthContext(withID(c, fmt.Sprint(budget.ID)), userID)

	require.NoError(t, h.budget.UpdateBudget(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response BudgetResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, "25.00", response.Amount)
	assert.Equal(t, "weekly", response.Period)
	assert.Equal(t, "2024-03-31", response.EndDate)
}

func TestUpdateBudget_NullCategoryRejected(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	categoryID := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)
	budget := h.mustCreateBudget(t, userID, fmt.Sprintf(`{"category": %d, "amount": "10.00", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, categoryID))

	c, rec := newJSONContext(echo.New(), http.MethodPatch, "/api/v1/budgets/", `{"category": null}`)
	setupAuthContext(withID(c, fmt.Sprint(budget.ID)), userID)

	require.NoError(t, h.budget.UpdateBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBudget(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	categoryID := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)
	budget := h.mustCreateBudget(t, userID, fmt.Sprintf(`{"category": %d, "amount": "10.00", "start_date": "2024-03-01", "end_date": "2024-03-31"}`, categoryID))

	c, rec := newJSONContext(echo.New(), http.MethodDelete, "/api/v1/budgets/", "")
	setupAuthContext(withID(c, fmt.Sprint(budget.ID)), uuid.New())
	require.NoError(t, h.budget.DeleteBudget(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newJSONContext(echo.New(), http.MethodDelete, "/api/v1/budgets/", "")
	setupAuthContext(withID(c, fmt.Sprint(budget.ID)), userID)
	require.NoError(t, h.budget.DeleteBudget(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, h.store.Budgets.Count())
}
