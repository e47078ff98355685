package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Name        string
	Kind        domain.CategoryKind
	Color       *string
	Description *string
}

// UpdateCategoryInput holds a partial category update; nil fields are kept
type UpdateCategoryInput struct {
	Name        *string
	Kind        *domain.CategoryKind
	Color       *string
	Description *string
}

// CreateCategory creates a new category for the user
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	name, err := validateCategoryName(input.Name)
	if err != nil {
		return nil, err
	}

	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidCategoryKind
	}

	color := domain.DefaultCategoryColorCode
	if input.Color != nil && strings.TrimSpace(*input.Color) != "" {
		color = strings.TrimSpace(*input.Color)
		if !domain.IsValidColor(color) {
			return nil, domain.ErrInvalidColor
		}
	}

	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	return s.categoryRepo.Create(ctx, &domain.Category{
		UserID:      userID,
		Name:        name,
		Kind:        input.Kind,
		Color:       color,
		Description: description,
	})
}

// GetCategories retrieves all categories of the user with transaction counts
func (s *CategoryService) GetCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(ctx, userID)
}

// GetCategoryByID retrieves one of the user's categories
func (s *CategoryService) GetCategoryByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, userID, id)
}

// UpdateCategory applies a partial update to one of the user's categories
func (s *CategoryService) UpdateCategory(ctx context.Context, userID uuid.UUID, id int32, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateCategoryName(*input.Name)
		if err != nil {
			return nil, err
		}
		category.Name = name
	}

	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, domain.ErrInvalidCategoryKind
		}
		category.Kind = *input.Kind
	}

	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		if !domain.IsValidColor(color) {
			return nil, domain.ErrInvalidColor
		}
		category.Color = color
	}

	if input.Description != nil {
		description, err := normalizeDescription(input.Description)
		if err != nil {
			return nil, err
		}
		category.Description = description
	}

	return s.categoryRepo.Update(ctx, category)
}

// DeleteCategory deletes one of the user's categories. Its transactions are
// kept uncategorized and its budgets are removed.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.categoryRepo.Delete(ctx, userID, id)
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// ownedCategoryOrInvalid maps a missing or foreign category to a validation
// error for operations that merely reference it
func ownedCategoryOrInvalid(ctx context.Context, repo domain.CategoryRepository, userID uuid.UUID, id int32) error {
	if _, err := repo.GetByID(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.ErrInvalidCategory
		}
		return err
	}
	return nil
}
