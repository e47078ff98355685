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

func TestCreateCategory_Success(t *testing.T) {
	h := newTestHandlers()
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/categories", `{"name": "Groceries", "type": "expense", "color": "#EF4444"}`)
	setupAuthContext(c, uuid.New())

	err := h.category.CreateCategory(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response CategoryResponse
	decodeJSON(t, rec, &response)

	if response.Name != "Groceries" {
		t.Errorf("Expected name 'Groceries', got %s", response.Name)
	}
	if response.Type != "expense" {
		t.Errorf("Expected type 'expense', got %s", response.Type)
	}
	if response.Color != "#EF4444" {
		t.Errorf("Expected color '#EF4444', got %s", response.Color)
	}
}

func TestCreateCategory_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"type": "expense"}`, "name"},
		{"invalid type", `{"name": "Rent", "type": "transfer"}`, "type"},
		{"invalid color", `{"name": "Rent", "type": "expense", "color": "red"}`, "color"},
		{"non-string description", `{"name": "Rent", "type": "expense", "description": 12}`, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers()
			c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/categories", tt.body)
			setupAuthContext(c, uuid.New())

			require.NoError(t, h.category.CreateCategory(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem ProblemDetails
			decodeJSON(t, rec, &problem)
			assert.Equal(t, ErrorTypeValidation, problem.Type)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
		})
	}
}

func TestCreateCategory_InvalidBody(t *testing.T) {
	h := newTestHandlers()
	c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/categories", `{"name": `)
	setupAuthContext(c, uuid.New())

	require.NoError(t, h.category.CreateCategory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)

	c, rec := newJSONContext(echo.New(), http.MethodPost, "/api/v1/categories", `{"name": "Food", "type": "expense"}`)
	setupAuthContext(c, userID)

	require.NoError(t, h.category.CreateCategory(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	assert.Equal(t, ErrorTypeConflict, problem.Type)
}

func TestGetCategory_OtherUserIsNotFound(t *testing.T) {
	h := newTestHandlers()
	id := h.mustCreateCategory(t, uuid.New(), `{"name": "Food", "type": "expense"}`)

	c, rec := newJSONContext(echo.New(), http.MethodGet, "/api/v1/categories/", "")
	setupAuthContext(withID(c, fmt.Sprint(id)), uuid.New())

	require.NoError(t, h.category.GetCategory(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCategory_BadID(t *testing.T) {
	h := newTestHandlers()

	c, rec := newJSONContext(echo.New(), http.MethodGet, "/api/v1/categories/abc", "")
	setupAuthContext(withID(c, "abc"), uuid.New())

	require.NoError(t, h.category.GetCategory(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCategories_IncludesTransactionCount(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	id := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)
	h.mustCreateTransaction(t, userID, fmt.Sprintf(`{"category": %d, "amount": "3.00", "date": "2024-03-01"}`, id))

	c, rec := newJSONContext(echo.New(), http.MethodGet, "/api/v1/categories", "")
	setupAuthContext(c, userID)

	require.NoError(t, h.category.GetCategories(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response []CategoryResponse
	decodeJSON(t, rec, &response)
	require.Len(t, response, 1)
	assert.Equal(t, int64(1), response[0].TransactionCount)
}

func TestUpdateCategory_PutRequiresFields(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	id := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)

	c, rec := newJSONContext(echo.New(), http.MethodPut, "/api/v1/categories/", `{"color": "#000000"}`)
	setupAuthContext(withID(c, fmt.Sprint(id)), userID)

	require.NoError(t, h.category.UpdateCategory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	assert.Len(t, problem.Errors, 2)
}

func TestUpdateCategory_Patch(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	id := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)

	c, rec := newJSONContext(echo.New(), http.MethodPatch, "/api/v1/categories/", `{"color": "#000000"}`)
	setupAuthContext(withID(c, fmt.Sprint(id)), userID)

	require.NoError(t, h.category.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response CategoryResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, "Food", response.Name)
	assert.Equal(t, "#000000", response.Color)
}

func TestUpdateCategory_PatchNullDescriptionClears(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	id := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense", "description": "groceries"}`)

	c, rec := newJSONContext(echo.New(), http.MethodPatch, "/api/v1/categories/", `{"description": null}`)
	setupAuthContext(withID(c, fmt.Sprint(id)), userID)

	require.NoError(t, h.category.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response CategoryResponse
	decodeJSON(t, rec, &response)
	assert.Nil(t, response.Description)
	assert.Equal(t, "Food", response.Name)
}

func TestUpdateCategory_PatchWithoutDescriptionKeepsIt(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	id := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense", "description": "groceries"}`)

	c, rec := newJSONContext(echo.New(), http.MethodPatch, "/api/v1/categories/", `{"color": "#000000"}`)
	setupAuthContext(withID(c, fmt.Sprint(id)), userID)

	require.NoError(t, h.category.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response CategoryResponse
	decodeJSON(t, rec, &response)
	require.NotNil(t, response.Description)
	assert.Equal(t, "groceries", *response.Description)
}

func TestDeleteCategory_KeepsTransactions(t *testing.T) {
	h := newTestHandlers()
	userID := uuid.New()
	id := h.mustCreateCategory(t, userID, `{"name": "Food", "type": "expense"}`)
	tx := h.mustCreateTransaction(t, userID, fmt.Sprintf(`{"category": %d, "amount": "3.00", "date": "2024-03-01"}`, id))

	c, rec := newJSONContext(echo.New(), http.MethodDelete, "/api/v1/categories/", "")
	setupAuthContext(withID(c, fmt.Sprint(id)), userID)

	require.NoError(t, h.category.DeleteCategory(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newJSONContext(echo.New(), http.MethodGet, "/api/v1/transactions/", "")
	setupAuthContext(withID(c, fmt.Sprint(tx.ID)), userID)

	require.NoError(t, h.transaction.GetTransaction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response TransactionResponse
	decodeJSON(t, rec, &response)
	assert.Nil(t, response.Category)
	assert.Nil(t, response.CategoryType)
}
