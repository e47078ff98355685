//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./internal/repository/postgres/

type repos struct {
	users        *UserRepository
	categories   *CategoryRepository
	transactions *TransactionRepository
	budgets      *BudgetRepository
}

func setupRepos(t *testing.T) (*repos, uuid.UUID) {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(pool))

	r := &repos{
		users:        NewUserRepository(pool),
		categories:   NewCategoryRepository(pool),
		transactions: NewTransactionRepository(pool),
		budgets:      NewBudgetRepository(pool),
	}

	suffix := uuid.NewString()[:8]
	user, err := r.users.Create(ctx, &domain.User{
		Username:     "it_" + suffix,
		Email:        "it_" + suffix + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.users.Delete(context.Background(), user.ID)
	})

	return r, user.ID
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func (r *repos) mustCategory(t *testing.T, userID uuid.UUID, name string, kind domain.CategoryKind) *domain.Category {
	t.Helper()
	c, err := r.categories.Create(context.Background(), &domain.Category{
		UserID: userID,
		Name:   name,
		Kind:   kind,
		Color:  "#3B82F6",
	})
	require.NoError(t, err)
	return c
}

func (r *repos) mustTransaction(t *testing.T, userID uuid.UUID, categoryID *int32, amount, date string) *domain.Transaction {
	t.Helper()
	tx, err := r.transactions.Create(context.Background(), &domain.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       day(date),
	})
	require.NoError(t, err)
	return tx
}

func TestBudgetSpentWithinWindow(t *testing.T) {
	r, userID := setupRepos(t)
	ctx := context.Background()

	food := r.mustCategory(t, userID, "Food", domain.CategoryKindExpense)
	r.mustTransaction(t, userID, &food.ID, "40.00", "2024-03-01")
	r.mustTransaction(t, userID, &food.ID, "25.50", "2024-03-31")
	r.mustTransaction(t, userID, &food.ID, "99.00", "2024-04-01")
	r.mustTransaction(t, userID, nil, "10.00", "2024-03-10")

	budget, err := r.budgets.Create(ctx, &domain.Budget{
		UserID:     userID,
		CategoryID: food.ID,
		Amount:     decimal.RequireFromString("50.00"),
		Period:     domain.BudgetPeriodMonthly,
		StartDate:  day("2024-03-01"),
		EndDate:    day("2024-03-31"),
	})
	require.NoError(t, err)

	got, err := r.budgets.GetByID(ctx, userID, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.CategoryName)
	assert.True(t, got.Spent.Equal(decimal.RequireFromString("65.50")), got.Spent.String())
	assert.True(t, got.Remaining().Equal(decimal.RequireFromString("-15.50")), got.Remaining().String())
}

func TestSumByKindSkipsUncategorized(t *testing.T) {
	r, userID := setupRepos(t)
	ctx := context.Background()

	salary := r.mustCategory(t, userID, "Salary", domain.CategoryKindIncome)
	rent := r.mustCategory(t, userID, "Rent", domain.CategoryKindExpense)
	r.mustTransaction(t, userID, &salary.ID, "1000.00", "2024-03-01")
	r.mustTransaction(t, userID, &rent.ID, "400.00", "2024-03-02")
	r.mustTransaction(t, userID, nil, "77.00", "2024-03-03")

	totals, err := r.transactions.SumByKind(ctx, userID, nil)
	require.NoError(t, err)
	assert.True(t, totals.Income.Equal(decimal.RequireFromString("1000")), totals.Income.String())
	assert.True(t, totals.Expenses.Equal(decimal.RequireFromString("400")), totals.Expenses.String())

	start := day("2024-03-02")
	totals, err = r.transactions.SumByKind(ctx, userID, &domain.TransactionFilters{StartDate: &start})
	require.NoError(t, err)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expenses.Equal(decimal.RequireFromString("400")))
}

func TestDeleteCategoryCascades(t *testing.T) {
	r, userID := setupRepos(t)
	ctx := context.Background()

	food := r.mustCategory(t, userID, "Food", domain.CategoryKindExpense)
	tx := r.mustTransaction(t, userID, &food.ID, "12.00", "2024-03-05")
	budget, err := r.budgets.Create(ctx, &domain.Budget{
		UserID:     userID,
		CategoryID: food.ID,
		Amount:     decimal.RequireFromString("100.00"),
		Period:     domain.BudgetPeriodMonthly,
		StartDate:  day("2024-03-01"),
		EndDate:    day("2024-03-31"),
	})
	require.NoError(t, err)

	listed, err := r.categories.GetAllByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1), listed[0].TransactionCount)

	require.NoError(t, r.categories.Delete(ctx, userID, food.ID))

	kept, err := r.transactions.GetByID(ctx, userID, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.CategoryID)
	assert.Nil(t, kept.CategoryName)

	_, err = r.budgets.GetByID(ctx, userID, budget.ID)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)

	_, err = r.categories.GetByID(ctx, userID, food.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestTransactionUpdateRejectsForeignCategory(t *testing.T) {
	r, userID := setupRepos(t)
	other, otherID := setupRepos(t)
	ctx := context.Background()

	foreign := other.mustCategory(t, otherID, "Theirs", domain.CategoryKindExpense)
	tx := r.mustTransaction(t, userID, nil, "3.00", "2024-03-05")

	tx.CategoryID = &foreign.ID
	_, err := r.transactions.Update(ctx, tx)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}
