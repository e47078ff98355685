package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/middleware"
	"github.com/dafibh/budgetly/budgetly-backend/internal/service"
	"github.com/dafibh/budgetly/budgetly-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	Category  json.RawMessage `json:"category" swaggertype:"integer"`
	Amount    json.RawMessage `json:"amount" swaggertype:"string"`
	Period    *string         `json:"period"`
	StartDate *string         `json:"start_date"`
	EndDate   *string         `json:"end_date"`
}

// BudgetResponse represents a budget in API responses. Spent and remaining
// are recomputed from transactions on every read.
type BudgetResponse struct {
	ID           int32   `json:"id"`
	Category     int32   `json:"category"`
	CategoryName string  `json:"category_name"`
	Amount       string  `json:"amount"`
	Period       string  `json:"period"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	IsOverBudget bool    `json:"is_over_budget"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Create a spending limit for one category over an inclusive date window
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "Budget creation request"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := toCreateBudgetInput(req)
	if err != nil {
		return handleServiceError(c, err, "Failed to create budget")
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to create budget")
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("budget_id", budget.ID).
		Int32("category_id", budget.CategoryID).
		Str("amount", budget.Amount.StringFixed(2)).
		Msg("Budget created")

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets godoc
// @Summary List budgets
// @Description List the user's budgets with spending computed at read time
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetResponse
// @Failure 401 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	budgets, err := h.budgetService.GetBudgets(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err, "Failed to get budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = toBudgetResponse(budget)
	}

	return c.JSON(http.StatusOK, response)
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} BudgetResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request().Context(), userID, id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget godoc
// @Summary Update a budget
// @Description PUT requires category, amount and both dates; PATCH changes only the fields sent
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Budget ID"
// @Param request body BudgetRequest true "Budget fields"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [put]
// @Router /budgets/{id} [patch]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if c.Request().Method == http.MethodPut {
		var missing []ValidationError
		if len(req.Category) == 0 {
			missing = append(missing, ValidationError{Field: "category", Message: "This field is required"})
		}
		if len(req.Amount) == 0 {
			missing = append(missing, ValidationError{Field: "amount", Message: "This field is required"})
		}
		if req.StartDate == nil {
			missing = append(missing, ValidationError{Field: "start_date", Message: "This field is required"})
		}
		if req.EndDate == nil {
			missing = append(missing, ValidationError{Field: "end_date", Message: "This field is required"})
		}
		if len(missing) > 0 {
			return NewValidationError(c, "Validation failed", missing)
		}
	}

	input, err := toUpdateBudgetInput(req)
	if err != nil {
		return handleServiceError(c, err, "Failed to update budget")
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, id, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to update budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", budget.ID).Msg("Budget updated")
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Security BearerAuth
// @Param id path integer true "Budget ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), userID, id); err != nil {
		return handleServiceError(c, err, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", id).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}

func toCreateBudgetInput(req BudgetRequest) (service.CreateBudgetInput, error) {
	var input service.CreateBudgetInput
	var err error

	if input.CategoryID, _, err = parseCategoryRef(req.Category); err != nil {
		return input, err
	}
	if input.Amount, err = parseAmount(req.Amount); err != nil {
		return input, err
	}
	if req.Period != nil {
		input.Period = domain.BudgetPeriod(*req.Period)
	}
	if input.StartDate, err = parseDateField("start_date", req.StartDate); err != nil {
		return input, err
	}
	if input.StartDate == nil {
		return input, withField("start_date", domain.ErrInvalidDate)
	}
	if input.EndDate, err = parseDateField("end_date", req.EndDate); err != nil {
		return input, err
	}
	if input.EndDate == nil {
		return input, withField("end_date", domain.ErrInvalidDate)
	}
	return input, nil
}

func toUpdateBudgetInput(req BudgetRequest) (service.UpdateBudgetInput, error) {
	var input service.UpdateBudgetInput
	var err error

	categoryID, null, err := parseCategoryRef(req.Category)
	if err != nil {
		return input, err
	}
	if null {
		return input, domain.ErrCategoryRequired
	}
	input.CategoryID = categoryID

	if len(req.Amount) > 0 {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return input, err
		}
		input.Amount = &amount
	}
	if req.Period != nil {
		period := domain.BudgetPeriod(*req.Period)
		input.Period = &period
	}
	if input.StartDate, err = parseDateField("start_date", req.StartDate); err != nil {
		return input, err
	}
	if req.StartDate != nil && input.StartDate == nil {
		return input, withField("start_date", domain.ErrInvalidDate)
	}
	if input.EndDate, err = parseDateField("end_date", req.EndDate); err != nil {
		return input, err
	}
	if req.EndDate != nil && input.EndDate == nil {
		return input, withField("end_date", domain.ErrInvalidDate)
	}
	return input, nil
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:           budget.ID,
		Category:     budget.CategoryID,
		CategoryName: budget.CategoryName,
		Amount:       budget.Amount.StringFixed(2),
		Period:       string(budget.Period),
		StartDate:    util.FormatDate(budget.StartDate),
		EndDate:      util.FormatDate(budget.EndDate),
		Spent:        budget.Spent.InexactFloat64(),
		Remaining:    budget.Remaining().InexactFloat64(),
		IsOverBudget: budget.IsOverBudget(),
		CreatedAt:    budget.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    budget.UpdatedAt.Format(time.RFC3339),
	}
}
