package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	CategoryID  *int32
	Amount      decimal.Decimal
	Description *string
	Date        *time.Time
}

// UpdateTransactionInput holds a partial transaction update. ClearCategory
// removes the category link; otherwise a nil CategoryID keeps the current one.
type UpdateTransactionInput struct {
	CategoryID    *int32
	ClearCategory bool
	Amount        *decimal.Decimal
	Description   *string
	Date          *time.Time
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.Date == nil || input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	// Validate category exists and belongs to the user if provided
	if input.CategoryID != nil {
		if err := ownedCategoryOrInvalid(ctx, s.categoryRepo, userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	created, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount.Round(domain.AmountDecimalPlaces),
		Description: description,
		Date:        util.TruncateToDate(*input.Date),
	})
	if errors.Is(err, domain.ErrCategoryNotFound) {
		// category vanished between the check and the insert
		return nil, domain.ErrInvalidCategory
	}
	return created, err
}

// GetTransactions retrieves the user's transactions with optional filters
func (s *TransactionService) GetTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByUser(ctx, userID, filters)
}

// GetTransactionByID retrieves one of the user's transactions
func (s *TransactionService) GetTransactionByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// UpdateTransaction applies a partial update to one of the user's transactions
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID uuid.UUID, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = input.Amount.Round(domain.AmountDecimalPlaces)
	}

	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domain.ErrInvalidDate
		}
		transaction.Date = util.TruncateToDate(*input.Date)
	}

	if input.Description != nil {
		description, err := normalizeDescription(input.Description)
		if err != nil {
			return nil, err
		}
		transaction.Description = description
	}

	switch {
	case input.ClearCategory:
		transaction.CategoryID = nil
	case input.CategoryID != nil:
		if err := ownedCategoryOrInvalid(ctx, s.categoryRepo, userID, *input.CategoryID); err != nil {
			return nil, err
		}
		transaction.CategoryID = input.CategoryID
	}

	updated, err := s.transactionRepo.Update(ctx, transaction)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		if input.CategoryID != nil {
			return nil, domain.ErrInvalidCategory
		}
		// The kept category was deleted after the read; its cascade already
		// cleared the link, so the update goes through uncategorized.
		transaction.CategoryID = nil
		updated, err = s.transactionRepo.Update(ctx, transaction)
	}
	return updated, err
}

// DeleteTransaction deletes one of the user's transactions
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.transactionRepo.Delete(ctx, userID, id)
}

// GetSummary totals income and expenses over the filtered transactions.
// Uncategorized transactions count toward neither side.
func (s *TransactionService) GetSummary(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionSummary, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	totals, err := s.transactionRepo.SumByKind(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	return domain.NewTransactionSummary(*totals), nil
}

func validateFilters(filters *domain.TransactionFilters) error {
	if filters == nil || filters.StartDate == nil || filters.EndDate == nil {
		return nil
	}
	if filters.EndDate.Before(*filters.StartDate) {
		return domain.ErrInvalidDateRange
	}
	return nil
}
