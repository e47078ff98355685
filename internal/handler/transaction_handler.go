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

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request body.
// Category and description are kept raw to distinguish absent from null;
// amount may arrive as a string or a number.
type TransactionRequest struct {
	Category    json.RawMessage `json:"category" swaggertype:"integer"`
	Amount      json.RawMessage `json:"amount" swaggertype:"string"`
	Description json.RawMessage `json:"description" swaggertype:"string"`
	Date        *string         `json:"date"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           int32   `json:"id"`
	Category     *int32  `json:"category"`
	CategoryName *string `json:"category_name"`
	CategoryType *string `json:"category_type"`
	Amount       string  `json:"amount"`
	Description  *string `json:"description"`
	Date         string  `json:"date"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a transaction, optionally linked to one of the user's categories
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	categoryID, _, err := parseCategoryRef(req.Category)
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	date, err := parseDateField("date", req.Date)
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	description, err := parseText("description", req.Description)
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, service.CreateTransactionInput{
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        date,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to create transaction")
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("transaction_id", transaction.ID).
		Str("amount", transaction.Amount.StringFixed(2)).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the user's transactions, newest date first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD), inclusive"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param category query int false "Filter by category ID"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transactions")
	}

	transactions, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		response[i] = toTransactionResponse(transaction)
	}

	return c.JSON(http.StatusOK, response)
}

// GetSummary godoc
// @Summary Summarize transactions
// @Description Total income and expenses by category type; uncategorized transactions are not counted
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD), inclusive"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param category query int false "Filter by category ID"
// @Success 200 {object} domain.TransactionSummary
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filters, err := parseTransactionFilters(c)
	if err != nil {
		return handleServiceError(c, err, "Failed to get summary")
	}

	summary, err := h.transactionService.GetSummary(c.Request().Context(), userID, filters)
	if err != nil {
		return handleServiceError(c, err, "Failed to get summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Transaction not found")
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request().Context(), userID, id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description PUT requires amount and date; PATCH changes only the fields sent. A null category or description clears it
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Transaction ID"
// @Param request body TransactionRequest true "Transaction fields"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
// @Router /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Transaction not found")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if c.Request().Method == http.MethodPut {
		var missing []ValidationError
		if len(req.Amount) == 0 {
			missing = append(missing, ValidationError{Field: "amount", Message: "This field is required"})
		}
		if req.Date == nil {
			missing = append(missing, ValidationError{Field: "date", Message: "This field is required"})
		}
		if len(missing) > 0 {
			return NewValidationError(c, "Validation failed", missing)
		}
	}

	var input service.UpdateTransactionInput

	if len(req.Amount) > 0 {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return handleServiceError(c, err, "Failed to update transaction")
		}
		input.Amount = &amount
	}

	input.CategoryID, input.ClearCategory, err = parseCategoryRef(req.Category)
	if err != nil {
		return handleServiceError(c, err, "Failed to update transaction")
	}

	if input.Date, err = parseDateField("date", req.Date); err != nil {
		return handleServiceError(c, err, "Failed to update transaction")
	}
	if req.Date != nil && input.Date == nil {
		return handleServiceError(c, domain.ErrInvalidDate, "Failed to update transaction")
	}

	if input.Description, err = parseText("description", req.Description); err != nil {
		return handleServiceError(c, err, "Failed to update transaction")
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, id, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to update transaction")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", transaction.ID).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseID(c)
	if err != nil {
		return NewNotFoundError(c, "Transaction not found")
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, id); err != nil {
		return handleServiceError(c, err, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, error) {
	var filters domain.TransactionFilters
	var err error

	if filters.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		return nil, err
	}
	if filters.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		return nil, err
	}
	if category := c.QueryParam("category"); category != "" {
		id, _, err := parseCategoryRef(json.RawMessage(category))
		if err != nil {
			return nil, withField("category", err)
		}
		filters.CategoryID = id
	}

	return &filters, nil
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:           transaction.ID,
		Category:     transaction.CategoryID,
		CategoryName: transaction.CategoryName,
		Amount:       transaction.Amount.StringFixed(2),
		Description:  transaction.Description,
		Date:         util.FormatDate(transaction.Date),
		CreatedAt:    transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    transaction.UpdatedAt.Format(time.RFC3339),
	}
	if kind := transaction.Kind(); kind != nil {
		kindStr := string(*kind)
		response.CategoryType = &kindStr
	}
	return response
}
