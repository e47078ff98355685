package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	CategoryID  *int32          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Joined from the linked category at read time
	CategoryName *string       `json:"category_name"`
	CategoryKind *CategoryKind `json:"category_type"`
}

// Kind returns the linked category's kind, or nil for an uncategorized
// transaction
func (t *Transaction) Kind() *CategoryKind {
	return t.CategoryKind
}

// TransactionFilters narrows transaction listings and summaries. Date
// bounds are inclusive; nil fields are not applied.
type TransactionFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int32
}

// TransactionTotals holds raw sums per category kind
type TransactionTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// TransactionSummary is the income/expense/balance view returned to clients
type TransactionSummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// NewTransactionSummary derives the balance from the totals
func NewTransactionSummary(totals TransactionTotals) *TransactionSummary {
	return &TransactionSummary{
		Income:   totals.Income.InexactFloat64(),
		Expenses: totals.Expenses.InexactFloat64(),
		Balance:  totals.Income.Sub(totals.Expenses).InexactFloat64(),
	}
}

type TransactionRepository interface {
	// Create inserts the transaction. When CategoryID is set the category
	// must be owned by the same user, otherwise ErrCategoryNotFound.
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Transaction, error)
	GetByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
	SumByKind(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*TransactionTotals, error)
}
