package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod is an informational label; it does not drive recurrence
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget is a spending limit for one category over an inclusive date window
type Budget struct {
	ID         int32           `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	CategoryID int32           `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Period     BudgetPeriod    `json:"period"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Populated on every read, never stored
	CategoryName string          `json:"category_name"`
	Spent        decimal.Decimal `json:"spent"`
}

// Remaining is the budget amount minus what has been spent in the window
func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}

// IsOverBudget reports whether spending strictly exceeds the limit
func (b *Budget) IsOverBudget() bool {
	return b.Spent.GreaterThan(b.Amount)
}

// BudgetRepository defines budget persistence. Every read computes Spent
// from the transactions table in the same statement.
type BudgetRepository interface {
	// Create inserts the budget. The category must be owned by the same
	// user, otherwise ErrCategoryNotFound.
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
