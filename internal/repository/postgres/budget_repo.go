package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// spent is evaluated per row in the same statement, so each read sees one
// snapshot of the transactions table
const budgetSelect = `
SELECT b.id, b.user_id, b.category_id, b.amount, b.period, b.start_date, b.end_date,
       b.created_at, b.updated_at, c.name,
       COALESCE((
           SELECT SUM(t.amount)
           FROM transactions t
           WHERE t.user_id = b.user_id
             AND t.category_id = b.category_id
             AND t.date BETWEEN b.start_date AND b.end_date
       ), 0)
FROM budgets b
JOIN categories c ON c.id = b.category_id`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create creates a new budget for an owned category
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOwnedCategory(ctx, tx, budget.UserID, budget.CategoryID); err != nil {
		return nil, err
	}

	var id int32
	err = tx.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		budget.UserID, budget.CategoryID, amount, string(budget.Period),
		timeToPgDate(budget.StartDate), timeToPgDate(budget.EndDate),
	).Scan(&id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	created, err := getBudget(ctx, tx, budget.UserID, id)
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

// GetByID retrieves a budget with its current spending
func (r *BudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return getBudget(ctx, r.pool, userID, id)
}

// GetAllByUser retrieves all budgets of a user ordered by start date, latest first
func (r *BudgetRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx, budgetSelect+` WHERE b.user_id = $1 ORDER BY b.start_date DESC, b.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Update overwrites the mutable fields of an owned budget
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockOwnedCategory(ctx, tx, budget.UserID, budget.CategoryID); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE budgets
		SET category_id = $3, amount = $4, period = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE user_id = $1 AND id = $2`,
		budget.UserID, budget.ID, budget.CategoryID, amount, string(budget.Period),
		timeToPgDate(budget.StartDate), timeToPgDate(budget.EndDate),
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrBudgetNotFound
	}

	updated, err := getBudget(ctx, tx, budget.UserID, budget.ID)
	if err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

// Delete removes an owned budget
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func getBudget(ctx context.Context, q querier, userID uuid.UUID, id int32) (*domain.Budget, error) {
	row := q.QueryRow(ctx, budgetSelect+` WHERE b.user_id = $1 AND b.id = $2`, userID, id)
	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var amount, spent pgtype.Numeric
	var startDate, endDate pgtype.Date
	var period string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &amount, &period, &startDate, &endDate,
		&b.CreatedAt, &b.UpdatedAt, &b.CategoryName, &spent,
	); err != nil {
		return nil, err
	}
	b.Amount = pgNumericToDecimal(amount)
	b.Spent = pgNumericToDecimal(spent)
	b.Period = domain.BudgetPeriod(period)
	b.StartDate = pgDateToTime(startDate)
	b.EndDate = pgDateToTime(endDate)
	return &b, nil
}
