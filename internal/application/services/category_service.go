package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// CategoryService handles task categories. Deleting a category leaves the
// tasks that reference it untouched.
type CategoryService struct {
	categories ports.CategoryRepository
	logger     *logger.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories ports.CategoryRepository, log *logger.Logger) *CategoryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &CategoryService{
		categories: categories,
		logger:     log.WithComponent("categories"),
	}
}

// CreateCategory creates a category owned by actor
func (s *CategoryService) CreateCategory(ctx context.Context, actor *entities.User, req ports.CreateCategoryRequest) (*entities.Category, error) {
	if err := requirePermission(actor, entities.PermCanAdd); err != nil {
		return nil, err
	}
	if err := entities.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.categories.Add(ctx, &entities.Category{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		User:  actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Infow("Category created successfully", "category_id", category.ID, "user_id", actor.ID)
	return category, nil
}

// ListCategories returns actor's categories newest first
func (s *CategoryService) ListCategories(ctx context.Context, actor *entities.User) ([]*entities.Category, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}
	categories, err := s.categories.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) load(ctx context.Context, actor *entities.User, id string, perm entities.Permission) (*entities.Category, error) {
	if err := requirePermission(actor, perm); err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, perm, category.User, permissions.ResourceCategories); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies the fields set in req
func (s *CategoryService) UpdateCategory(ctx context.Context, actor *entities.User, id string, req ports.UpdateCategoryRequest) (*entities.Category, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}

	category, err := s.categories.Update(ctx, id, func(c *entities.Category) error {
		pick(&c.Name, req.Name)
		pick(&c.Color, req.Color)
		pick(&c.Icon, req.Icon)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category
func (s *CategoryService) DeleteCategory(ctx context.Context, actor *entities.User, id string) (bool, error) {
	if _, err := s.load(ctx, actor, id, entities.PermCanDelete); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return deleted, nil
}
