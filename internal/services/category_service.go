package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/hierarchy"
	"centsible/internal/models"
)

// categoryService handles category-related business logic. It owns the
// two-level invariant: a parent is always a top-level category, and no
// child ever references another child.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category, optionally under a parent.
func (s *categoryService) CreateCategory(userID, name, color string, parentID *string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	if parentID != nil {
		if err := s.checkParent(userID, *parentID); err != nil {
			return nil, err
		}
	}

	// Append to the end of the sibling group.
	nextOrder, err := s.nextSortOrder(userID, parentID)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:    userID,
		Name:      name,
		Color:     color,
		SortOrder: nextOrder,
		IsActive:  true,
		ParentID:  parentID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// checkParent verifies the parent exists, belongs to the user, is active,
// and is itself a top-level category.
func (s *categoryService) checkParent(userID, parentID string) error {
	var parent models.Category
	if err := s.db.Where("id = ? AND user_id = ?", parentID, userID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if parent.IsChild() || !parent.IsActive {
		return apperrors.ErrInvalidParent
	}
	return nil
}

// nextSortOrder returns one past the highest sort order in a sibling group.
func (s *categoryService) nextSortOrder(userID string, parentID *string) (int, error) {
	query := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var maxOrder int
	if err := query.Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return maxOrder + 1, nil
}

// GetUserCategories retrieves all categories for a user as a flat list.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("sort_order").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryTree retrieves the user's categories grouped as parents with children.
func (s *categoryService) GetCategoryTree(userID string) ([]hierarchy.Node, error) {
	categories, err := s.GetUserCategories(userID)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(categories), nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's name and color. A category's place
// in the hierarchy is fixed at creation; re-parenting would silently
// change budget rollups for past months.
func (s *categoryService) UpdateCategory(userID, categoryID, name, color string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a category. Parents with children and
// categories with recorded expenses are protected.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", categoryID).Count(&childCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if childCount > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	var expenseCount int64
	if err := s.db.Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&expenseCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if expenseCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ReorderCategories applies a drag-reorder of one sibling group (parents
// when parentID is nil, otherwise the children of that parent). orderedIDs
// must name every sibling exactly once; sort orders are renumbered 1..n.
func (s *categoryService) ReorderCategories(userID string, parentID *string, orderedIDs []string) ([]models.Category, error) {
	query := s.db.Where("user_id = ?", userID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var siblings []models.Category
	if err := query.Find(&siblings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(orderedIDs) != len(siblings) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reorder must include every category in the group")
	}

	byID := make(map[string]models.Category, len(siblings))
	for _, c := range siblings {
		byID[c.ID] = c
	}

	ordered := make([]models.Category, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		c, ok := byID[id]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "category not in this group: "+id)
		}
		delete(byID, id)
		ordered = append(ordered, c)
	}

	renumbered := hierarchy.Renumber(ordered)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range renumbered {
			if err := tx.Model(&models.Category{}).Where("id = ?", c.ID).Update("sort_order", c.SortOrder).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return renumbered, nil
}
