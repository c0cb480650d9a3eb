package catalog

import (
	"context"
	"fmt"

	"github.com/Sternrassler/go-shop-catalog/pkg/cache"
	"github.com/Sternrassler/go-shop-catalog/pkg/logging"
	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

// CategoryService serves category reads through the cache and keeps the
// cache coherent with category mutations.
type CategoryService struct {
	store CategoryStore
	cacheOps
}

// NewCategoryService creates a category service on the given store and cache.
func NewCategoryService(st CategoryStore, c Cache) *CategoryService {
	return &CategoryService{
		store:    st,
		cacheOps: cacheOps{cache: c, log: logging.NewLogger("catalog.categories")},
	}
}

// List returns all categories, optionally including inactive ones and
// per-category active-product counts.
func (s *CategoryService) List(ctx context.Context, includeInactive, withProductCount bool) (*CategoryListResponse, error) {
	key := cache.CategoryListKey(includeInactive, withProductCount)

	var cached CategoryListResponse
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	categories, err := s.store.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	resp := CategoryListResponse{Items: make([]CategoryResponse, 0, len(categories)), Total: len(categories)}

	var counts map[int64]int64
	if withProductCount {
		// Explicit batched count, one grouped query for all categories.
		counts, err = s.store.ActiveProductCounts(ctx)
		if err != nil {
			return nil, err
		}
	}

	for i := range categories {
		item := categoryResponse(&categories[i])
		if withProductCount {
			n := counts[item.ID]
			item.ProductCount = &n
		}
		resp.Items = append(resp.Items, item)
	}

	s.set(ctx, key, resp, entityTTL)
	return &resp, nil
}

// GetByID returns a single category.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*CategoryResponse, error) {
	key := cache.CategoryKey(id)

	var cached CategoryResponse
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	category, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	resp := categoryResponse(category)
	s.set(ctx, key, resp, entityTTL)
	return &resp, nil
}

// GetBySlug returns a single category by its URL slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	key := cache.CategorySlugKey(slug)

	var cached CategoryResponse
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	category, err := s.store.CategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	}

	resp := categoryResponse(category)
	s.set(ctx, key, resp, entityTTL)
	return &resp, nil
}

// Create stores a new category. Name and slug must be unique among all
// categories, active or not.
func (s *CategoryService) Create(ctx context.Context, in CategoryCreate) (*CategoryResponse, error) {
	if err := s.checkUnique(ctx, in.Name, in.Slug, 0); err != nil {
		return nil, err
	}

	category := store.Category{
		Name:        in.Name,
		Description: in.Description,
		Slug:        in.Slug,
		IsActive:    true,
	}
	if err := s.store.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}

	s.invalidate(ctx, nil, cache.CategoryListPattern, cache.ProductListPattern)
	s.log.Info().Int64("category_id", category.ID).Str("name", category.Name).Msg("category created")

	resp := categoryResponse(&category)
	return &resp, nil
}

// Update applies a partial update. On a slug change the cache entry for the
// old slug is invalidated as well, so the renamed category cannot be served
// under its former address.
func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryUpdate) (*CategoryResponse, error) {
	fields := make(map[string]any)
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Slug != nil {
		fields["slug"] = *in.Slug
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}

	existing, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	var newName, newSlug string
	if in.Name != nil && *in.Name != existing.Name {
		newName = *in.Name
	}
	if in.Slug != nil && *in.Slug != existing.Slug {
		newSlug = *in.Slug
	}
	if err := s.checkUnique(ctx, newName, newSlug, id); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCategory(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	keys := []string{cache.CategoryKey(id), cache.CategorySlugKey(existing.Slug)}
	if updated.Slug != existing.Slug {
		keys = append(keys, cache.CategorySlugKey(updated.Slug))
	}
	s.invalidate(ctx, keys, cache.CategoryListPattern, cache.ProductListPattern)
	s.log.Info().Int64("category_id", id).Msg("category updated")

	resp := categoryResponse(updated)
	return &resp, nil
}

// Delete soft-deletes the category. Products in the category keep their own
// active state.
func (s *CategoryService) Delete(ctx context.Context, id int64) (*CategoryDeleteResponse, error) {
	existing, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	deleted, err := s.store.SoftDeleteCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	s.invalidate(ctx,
		[]string{cache.CategoryKey(id), cache.CategorySlugKey(existing.Slug)},
		cache.CategoryListPattern, cache.ProductListPattern)
	s.log.Info().Int64("category_id", id).Msg("category deleted")

	return &CategoryDeleteResponse{Message: "Category deleted successfully", CategoryID: id}, nil
}

// checkUnique rejects a taken name or slug. Empty strings are skipped;
// selfID exempts the category being updated.
func (s *CategoryService) checkUnique(ctx context.Context, name, slug string, selfID int64) error {
	if name != "" {
		existing, err := s.store.CategoryByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("category name %q: %w", name, ErrConflict)
		}
	}
	if slug != "" {
		existing, err := s.store.CategoryBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("category slug %q: %w", slug, ErrConflict)
		}
	}
	return nil
}
