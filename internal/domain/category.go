package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// CategoryKind classifies a category, and through it every transaction
// tagged with that category
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// IsValid reports whether k is one of the known kinds
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindIncome || k == CategoryKindExpense
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsValidColor reports whether c is a #RRGGBB hex color
func IsValidColor(c string) bool {
	return hexColorPattern.MatchString(c)
}

type Category struct {
	ID          int32        `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	Kind        CategoryKind `json:"type"`
	Color       string       `json:"color"`
	Description *string      `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// TransactionCount is populated on reads; it is not a stored column.
	TransactionCount int64 `json:"transaction_count"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Category, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	// Delete removes the category, clears the category of its transactions
	// and deletes its budgets as one atomic unit.
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
