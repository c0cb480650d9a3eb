package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ListProducts returns one page of products matching the filter, plus the
// total number of matching rows. Ordering is newest-created first with ties
// broken by insertion order.
func (s *Store) ListProducts(ctx context.Context, filter ProductFilter, offset, limit int) ([]Product, int64, error) {
	q := s.db.WithContext(ctx).Model(&Product{})

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != nil {
		term := "%" + *filter.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", term, term)
	}
	if filter.InStock != nil && *filter.InStock {
		q = q.Where("stock_quantity > ?", 0)
	}

	active := true
	if filter.IsActive != nil {
		active = *filter.IsActive
	}
	q = q.Where("is_active = ?", active)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []Product
	err := q.Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// ProductByID returns the product with the given id, or nil if absent.
func (s *Store) ProductByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("product by id: %w", err)
	}
	return &product, nil
}

// CreateProduct inserts the product and fills server-assigned fields.
func (s *Store) CreateProduct(ctx context.Context, product *Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct applies the given column values to the product and returns
// the updated row, or nil if the product does not exist.
func (s *Store) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*Product, error) {
	res := s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.ProductByID(ctx, id)
}

// SoftDeleteProduct marks the product inactive, preserving the row.
// Reports false when the product does not exist.
func (s *Store) SoftDeleteProduct(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CheckStock reports whether the product exists and has at least quantity
// units in stock. The answer is advisory: only DecrementStock is atomic.
func (s *Store) CheckStock(ctx context.Context, id int64, quantity int) (bool, error) {
	product, err := s.ProductByID(ctx, id)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, nil
	}
	return product.StockQuantity >= quantity, nil
}

// DecrementStock subtracts quantity from the product's stock as a single
// conditional UPDATE. Two concurrent decrements can never drive the stock
// negative: the row is checked and written in one statement. Reports false
// (stock unchanged) when the product is missing or the stock is insufficient.
func (s *Store) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	res := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return false, fmt.Errorf("decrement stock: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
