package categories

import (
	"context"
	"errors"
	"strings"

	"yardloop-backend/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// List returns all categories in alphabetical order.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// Create inserts a category. Duplicate names conflict; unlike favorites this
// is surfaced to the caller, not treated as success.
func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("Category name is required")
	}
	var existing domain.Category
	err := s.DB.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error
	if err == nil {
		return nil, errors.New("Category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat := &domain.Category{Name: name}
	if err := s.DB.WithContext(ctx).Create(cat).Error; err != nil {
		// Lost a race with a concurrent insert of the same name.
		if ferr := s.DB.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error; ferr == nil {
			return nil, errors.New("Category already exists")
		}
		return nil, err
	}
	return cat, nil
}
