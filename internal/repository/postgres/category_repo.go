package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categorySelect = `
SELECT c.id, c.user_id, c.name, c.kind, c.color, c.description, c.created_at, c.updated_at,
       (SELECT COUNT(*) FROM transactions t WHERE t.user_id = c.user_id AND t.category_id = c.id)
FROM categories c`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var id int32
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, kind, color, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		category.UserID, category.Name, string(category.Kind), category.Color, category.Description,
	).Scan(&id)
	if err != nil {
		// Check for unique constraint violation
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, category.UserID, id)
}

// GetByID retrieves a category by its ID for the given owner
func (r *CategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, categorySelect+` WHERE c.user_id = $1 AND c.id = $2`, userID, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByUser retrieves all categories of a user, newest first
func (r *CategoryRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, categorySelect+` WHERE c.user_id = $1 ORDER BY c.created_at DESC, c.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

// Update writes name, kind, color and description of an owned category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET name = $3, kind = $4, color = $5, description = $6, updated_at = NOW()
		WHERE user_id = $1 AND id = $2`,
		category.UserID, category.ID, category.Name, string(category.Kind), category.Color, category.Description,
	)
	if err != nil {
		// Check for unique constraint violation
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return r.GetByID(ctx, category.UserID, category.ID)
}

// Delete removes a category in one database transaction: transactions that
// reference it keep their rows with the category cleared, budgets that
// reference it are deleted.
func (r *CategoryRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock makes concurrent writers that verify this category wait for us
	var locked int32
	err = tx.QueryRow(ctx, `SELECT id FROM categories WHERE user_id = $1 AND id = $2 FOR UPDATE`, userID, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCategoryNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE transactions SET category_id = NULL WHERE user_id = $1 AND category_id = $2`, userID, id); err != nil {
		return fmt.Errorf("clear transaction categories: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND category_id = $2`, userID, id); err != nil {
		return fmt.Errorf("delete category budgets: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return tx.Commit(ctx)
}

// lockOwnedCategory takes a share lock on the category so it cannot be
// deleted before the surrounding transaction commits
func lockOwnedCategory(ctx context.Context, tx pgx.Tx, userID uuid.UUID, id int32) error {
	var locked int32
	err := tx.QueryRow(ctx, `SELECT id FROM categories WHERE user_id = $1 AND id = $2 FOR SHARE`, userID, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCategoryNotFound
	}
	return err
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var kind string
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &kind, &c.Color, &c.Description,
		&c.CreatedAt, &c.UpdatedAt, &c.TransactionCount,
	); err != nil {
		return nil, err
	}
	c.Kind = domain.CategoryKind(kind)
	return &c, nil
}
