package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ListCategories returns all categories ordered by name.
// Inactive categories are included only when includeInactive is true.
func (s *Store) ListCategories(ctx context.Context, includeInactive bool) ([]Category, error) {
	q := s.db.WithContext(ctx).Model(&Category{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var categories []Category
	if err := q.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CategoryByID returns the category with the given id, or nil if absent.
func (s *Store) CategoryByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("category by id: %w", err)
	}
	return &category, nil
}

// CategoryBySlug returns the category with the given slug, or nil if absent.
func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("category by slug: %w", err)
	}
	return &category, nil
}

// CategoryByName returns the category with the given name, or nil if absent.
// Name uniqueness spans active and inactive categories alike.
func (s *Store) CategoryByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).First(&category, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("category by name: %w", err)
	}
	return &category, nil
}

// CreateCategory inserts the category and fills server-assigned fields.
func (s *Store) CreateCategory(ctx context.Context, category *Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory applies the given column values to the category and returns
// the updated row, or nil if the category does not exist.
func (s *Store) UpdateCategory(ctx context.Context, id int64, fields map[string]any) (*Category, error) {
	res := s.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.CategoryByID(ctx, id)
}

// SoftDeleteCategory marks the category inactive. Products keep their own
// active state. Reports false when the category does not exist.
func (s *Store) SoftDeleteCategory(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Category{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("delete category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ActiveProductCounts returns the number of active products per category id,
// computed as one grouped query. Categories without active products are
// absent from the map.
func (s *Store) ActiveProductCounts(ctx context.Context) (map[int64]int64, error) {
	var rows []struct {
		CategoryID int64
		Count      int64
	}
	err := s.db.WithContext(ctx).Model(&Product{}).
		Select("category_id, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("product counts: %w", err)
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}
