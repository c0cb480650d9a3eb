package catalog

import (
	"context"
	"fmt"

	"github.com/Sternrassler/go-shop-catalog/pkg/cache"
	"github.com/Sternrassler/go-shop-catalog/pkg/logging"
	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

// ProductService serves product reads through the cache and keeps the cache
// coherent with product mutations.
type ProductService struct {
	store      ProductStore
	categories CategoryStore
	cacheOps
}

// NewProductService creates a product service on the given stores and cache.
func NewProductService(st ProductStore, categories CategoryStore, c Cache) *ProductService {
	return &ProductService{
		store:      st,
		categories: categories,
		cacheOps:   cacheOps{cache: c, log: logging.NewLogger("catalog.products")},
	}
}

// List returns one page of products matching the filter. A page past the end
// yields an empty item list with unchanged total/pages metadata.
func (s *ProductService) List(ctx context.Context, page, pageSize int, filter store.ProductFilter) (*ProductListResponse, error) {
	key := listKey(page, pageSize, filter)

	var cached ProductListResponse
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	offset := (page - 1) * pageSize
	products, total, err := s.store.ListProducts(ctx, filter, offset, pageSize)
	if err != nil {
		return nil, err
	}

	resp := ProductListResponse{
		Items:    make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    totalPages(total, pageSize),
	}
	for i := range products {
		resp.Items = append(resp.Items, productResponse(&products[i]))
	}

	s.set(ctx, key, resp, productListTTL)
	return &resp, nil
}

// GetByID returns a single product.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	key := cache.ProductKey(id)

	var cached ProductResponse
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	resp := productResponse(product)
	s.set(ctx, key, resp, entityTTL)
	return &resp, nil
}

// Create stores a new product. The target category must exist.
func (s *ProductService) Create(ctx context.Context, in ProductCreate) (*ProductResponse, error) {
	category, err := s.categories.CategoryByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %d: %w", in.CategoryID, ErrNotFound)
	}

	product := store.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    in.CategoryID,
		ImageURL:      in.ImageURL,
		StockQuantity: in.StockQuantity,
		IsActive:      true,
	}
	if err := s.store.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}

	// Category lists embed product counts, so they go stale too.
	s.invalidate(ctx, nil, cache.ProductListPattern, cache.CategoryListPattern)
	s.log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")

	resp := productResponse(&product)
	return &resp, nil
}

// Update applies a partial update.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductUpdate) (*ProductResponse, error) {
	fields := make(map[string]any)
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.StockQuantity != nil {
		fields["stock_quantity"] = *in.StockQuantity
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}

	if in.CategoryID != nil {
		category, err := s.categories.CategoryByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, fmt.Errorf("category %d: %w", *in.CategoryID, ErrNotFound)
		}
	}

	updated, err := s.store.UpdateProduct(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	s.invalidate(ctx, []string{cache.ProductKey(id)},
		cache.ProductListPattern, cache.CategoryListPattern)
	s.log.Info().Int64("product_id", id).Msg("product updated")

	resp := productResponse(updated)
	return &resp, nil
}

// Delete soft-deletes the product.
func (s *ProductService) Delete(ctx context.Context, id int64) (*ProductDeleteResponse, error) {
	deleted, err := s.store.SoftDeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	s.invalidate(ctx, []string{cache.ProductKey(id)},
		cache.ProductListPattern, cache.CategoryListPattern)
	s.log.Info().Int64("product_id", id).Msg("product deleted")

	return &ProductDeleteResponse{Message: "Product deleted successfully", ProductID: id}, nil
}

// CheckAvailability reports whether the product can currently satisfy the
// requested quantity. The check always reads live product state, never the
// cache.
func (s *ProductService) CheckAvailability(ctx context.Context, id int64, quantity int) (*AvailabilityResponse, error) {
	available, err := s.store.CheckStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{ProductID: id, Quantity: quantity, Available: available}, nil
}

// listKey derives the cache key for one filtered list page. Absent filters
// stay out of the key.
func listKey(page, pageSize int, filter store.ProductFilter) string {
	return cache.ProductListKey{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
		MinPrice:   filter.MinPrice,
		MaxPrice:   filter.MaxPrice,
		InStock:    filter.InStock,
		IsActive:   filter.IsActive,
	}.String()
}
