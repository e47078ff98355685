package service

import (
	"strings"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
)

// normalizeDescription trims an optional free-text field; blank becomes nil
func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionLong
	}
	return &trimmed, nil
}
