package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/middleware"
	"github.com/dafibh/budgetly/budgetly-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body.
// Description is raw so an explicit null can clear it.
type CategoryRequest struct {
	Name        *string         `json:"name"`
	Type        *string         `json:"type"`
	Color       *string         `json:"color"`
	Description json.RawMessage `json:"description" swaggertype:"string"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID               int32   `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Color            string  `json:"color"`
	Description      *string `json:"description"`
	TransactionCount int64   `json:"transaction_count"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// CreateCategory godoc
// @Summary Create a category
// @Description Create an income or expense category; names are unique per user
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category creation request"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	description, err := parseText("description", req.Description)
	if err != nil {
		return handleServiceError(c, err, "Failed to create category")
	}

	input := service.CreateCategoryInput{
		Color:       req.Color,
		Description: description,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Type != nil {
		input.Kind = domain.CategoryKind(*req.Type)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), userID, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to create category")
	}

	log.Info().Str("user_id", userID.String()).Int32("category_id", category.ID).Str("name", category.Name).Msg("Category created")

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories godoc
// @Summary List categories
// @Description List the user's categories with their transaction counts
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CategoryResponse
// @Failure 401 {object} ProblemDetails
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)

	categories, err := h.categoryService.GetCategories(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}

	return c.JSON(http.StatusOK, response)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	category, err := h.categoryService.GetCategoryByID(c.Request().Context(), userID, id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory godoc
// @Summary Update a category
// @Description PUT requires name and type; PATCH changes only the fields sent. A null description clears it
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Category ID"
// @Param request body CategoryRequest true "Category fields"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [put]
// @Router /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if c.Request().Method == http.MethodPut {
		var missing []ValidationError
		if req.Name == nil {
			missing = append(missing, ValidationError{Field: "name", Message: "This field is required"})
		}
		if req.Type == nil {
			missing = append(missing, ValidationError{Field: "type", Message: "This field is required"})
		}
		if len(missing) > 0 {
			return NewValidationError(c, "Validation failed", missing)
		}
	}

	description, err := parseText("description", req.Description)
	if err != nil {
		return handleServiceError(c, err, "Failed to update category")
	}

	input := service.UpdateCategoryInput{
		Name:        req.Name,
		Color:       req.Color,
		Description: description,
	}
	if req.Type != nil {
		kind := domain.CategoryKind(*req.Type)
		input.Kind = &kind
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), userID, id, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to update category")
	}

	log.Info().Str("user_id", userID.String()).Int32("category_id", category.ID).Str("name", category.Name).Msg("Category updated")
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Delete a category and its budgets; its transactions become uncategorized
// @Tags categories
// @Security BearerAuth
// @Param id path integer true "Category ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), userID, id); err != nil {
		return handleServiceError(c, err, "Failed to delete category")
	}

	log.Info().Str("user_id", userID.String()).Int32("category_id", id).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:               category.ID,
		Name:             category.Name,
		Type:             string(category.Kind),
		Color:            category.Color,
		Description:      category.Description,
		TransactionCount: category.TransactionCount,
		CreatedAt:        category.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        category.UpdatedAt.Format(time.RFC3339),
	}
}
