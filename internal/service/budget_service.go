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

// BudgetService handles budget business logic. Spending figures come from
// the repository on every read and are never cached here.
type BudgetService struct {
	budgetRepo   domain.BudgetRepository
	categoryRepo domain.CategoryRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, categoryRepo domain.CategoryRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	CategoryID *int32
	Amount     decimal.Decimal
	Period     domain.BudgetPeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// UpdateBudgetInput holds a partial budget update; nil fields are kept
type UpdateBudgetInput struct {
	CategoryID *int32
	Amount     *decimal.Decimal
	Period     *domain.BudgetPeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// CreateBudget creates a budget for one of the user's categories
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	if input.CategoryID == nil {
		return nil, domain.ErrCategoryRequired
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	period := input.Period
	if period == "" {
		period = domain.BudgetPeriodMonthly
	}
	if !period.IsValid() {
		return nil, domain.ErrInvalidPeriod
	}

	if input.StartDate == nil || input.EndDate == nil {
		return nil, domain.ErrInvalidDate
	}
	start := util.TruncateToDate(*input.StartDate)
	end := util.TruncateToDate(*input.EndDate)
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	if err := ownedCategoryOrInvalid(ctx, s.categoryRepo, userID, *input.CategoryID); err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.Create(ctx, &domain.Budget{
		UserID:     userID,
		CategoryID: *input.CategoryID,
		Amount:     input.Amount.Round(domain.AmountDecimalPlaces),
		Period:     period,
		StartDate:  start,
		EndDate:    end,
	})
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, domain.ErrInvalidCategory
	}
	return created, err
}

// GetBudgets retrieves all of the user's budgets with current spending
func (s *BudgetService) GetBudgets(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.GetAllByUser(ctx, userID)
}

// GetBudgetByID retrieves one of the user's budgets with current spending
func (s *BudgetService) GetBudgetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, userID, id)
}

// UpdateBudget applies a partial update; the resulting window is re-validated
func (s *BudgetService) UpdateBudget(ctx context.Context, userID uuid.UUID, id int32, input UpdateBudgetInput) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
		budget.Amount = input.Amount.Round(domain.AmountDecimalPlaces)
	}

	if input.Period != nil {
		if !input.Period.IsValid() {
			return nil, domain.ErrInvalidPeriod
		}
		budget.Period = *input.Period
	}

	if input.StartDate != nil {
		budget.StartDate = util.TruncateToDate(*input.StartDate)
	}
	if input.EndDate != nil {
		budget.EndDate = util.TruncateToDate(*input.EndDate)
	}
	if budget.EndDate.Before(budget.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	if input.CategoryID != nil {
		if err := ownedCategoryOrInvalid(ctx, s.categoryRepo, userID, *input.CategoryID); err != nil {
			return nil, err
		}
		budget.CategoryID = *input.CategoryID
	}

	updated, err := s.budgetRepo.Update(ctx, budget)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		if input.CategoryID != nil {
			return nil, domain.ErrInvalidCategory
		}
		// The budget's own category was deleted after the read, and the
		// budget went with it.
		return nil, domain.ErrBudgetNotFound
	}
	return updated, err
}

// DeleteBudget deletes one of the user's budgets
func (s *BudgetService) DeleteBudget(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.budgetRepo.Delete(ctx, userID, id)
}
