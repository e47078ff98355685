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

const transactionSelect = `
SELECT t.id, t.user_id, t.category_id, t.amount, t.description, t.date, t.created_at, t.updated_at,
       c.name, c.kind
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id`

// Filter parameters are $2..$4; a NULL parameter disables its condition
const transactionFilterClause = `
  AND ($2::date IS NULL OR t.date >= $2::date)
  AND ($3::date IS NULL OR t.date <= $3::date)
  AND ($4::int IS NULL OR t.category_id = $4::int)`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction. Category ownership is checked under a
// share lock inside the same database transaction as the insert.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if transaction.CategoryID != nil {
		if err := lockOwnedCategory(ctx, tx, transaction.UserID, *transaction.CategoryID); err != nil {
			return nil, err
		}
	}

	var id int32
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, category_id, amount, description, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		transaction.UserID, optionalPgInt4(transaction.CategoryID), amount, transaction.Description, timeToPgDate(transaction.Date),
	).Scan(&id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	created, err := getTransaction(ctx, tx, transaction.UserID, id)
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

// GetByID retrieves a transaction by its ID for the given owner
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return getTransaction(ctx, r.pool, userID, id)
}

// GetByUser retrieves a user's transactions, newest date first
func (r *TransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}

	rows, err := r.pool.Query(ctx,
		transactionSelect+` WHERE t.user_id = $1`+transactionFilterClause+`
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC`,
		userID, optionalPgDate(filters.StartDate), optionalPgDate(filters.EndDate), optionalPgInt4(filters.CategoryID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Update overwrites the mutable fields of an owned transaction
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if transaction.CategoryID != nil {
		if err := lockOwnedCategory(ctx, tx, transaction.UserID, *transaction.CategoryID); err != nil {
			return nil, err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET category_id = $3, amount = $4, description = $5, date = $6, updated_at = NOW()
		WHERE user_id = $1 AND id = $2`,
		transaction.UserID, transaction.ID, optionalPgInt4(transaction.CategoryID), amount, transaction.Description, timeToPgDate(transaction.Date),
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}

	updated, err := getTransaction(ctx, tx, transaction.UserID, transaction.ID)
	if err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

// Delete removes an owned transaction
func (r *TransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumByKind totals amounts per category kind in a single statement.
// Uncategorized transactions drop out through the inner join.
func (r *TransactionRepository) SumByKind(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionTotals, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}

	var income, expenses pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(t.amount) FILTER (WHERE c.kind = 'income'), 0),
		       COALESCE(SUM(t.amount) FILTER (WHERE c.kind = 'expense'), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1`+transactionFilterClause,
		userID, optionalPgDate(filters.StartDate), optionalPgDate(filters.EndDate), optionalPgInt4(filters.CategoryID),
	).Scan(&income, &expenses)
	if err != nil {
		return nil, err
	}

	return &domain.TransactionTotals{
		Income:   pgNumericToDecimal(income),
		Expenses: pgNumericToDecimal(expenses),
	}, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getTransaction(ctx context.Context, q querier, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := q.QueryRow(ctx, transactionSelect+` WHERE t.user_id = $1 AND t.id = $2`, userID, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var amount pgtype.Numeric
	var date pgtype.Date
	var categoryKind *string
	if err := row.Scan(
		&t.ID, &t.UserID, &t.CategoryID, &amount, &t.Description, &date,
		&t.CreatedAt, &t.UpdatedAt, &t.CategoryName, &categoryKind,
	); err != nil {
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Date = pgDateToTime(date)
	if categoryKind != nil {
		kind := domain.CategoryKind(*categoryKind)
		t.CategoryKind = &kind
	}
	return &t, nil
}
