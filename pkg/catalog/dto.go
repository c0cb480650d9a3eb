package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

// CategoryCreate carries the fields for a new category. Input validation
// (lengths, slug shape) happens at the boundary before reaching the service.
type CategoryCreate struct {
	Name        string
	Description string
	Slug        string
}

// CategoryUpdate is a partial update; nil fields are left unchanged.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Slug        *string
	IsActive    *bool
}

// CategoryResponse is the cached, presentation-ready category shape.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ProductCount is the number of active products in the category.
	// Present only on list reads requested with product counts.
	ProductCount *int64 `json:"product_count,omitempty"`
}

// CategoryListResponse is the cached category list shape.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Total int                `json:"total"`
}

// CategoryDeleteResponse acknowledges a category soft delete.
type CategoryDeleteResponse struct {
	Message    string `json:"message"`
	CategoryID int64  `json:"category_id"`
}

// ProductCreate carries the fields for a new product.
type ProductCreate struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	CategoryID    int64
	ImageURL      string
	StockQuantity int
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *int64
	ImageURL      *string
	StockQuantity *int
	IsActive      *bool
}

// ProductResponse is the cached, presentation-ready product shape.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    int64           `json:"category_id"`
	ImageURL      string          `json:"image_url,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse is one cached page of a filtered product list.
type ProductListResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Pages    int               `json:"pages"`
}

// ProductDeleteResponse acknowledges a product soft delete.
type ProductDeleteResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}

// AvailabilityResponse answers a stock availability probe.
type AvailabilityResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Available bool  `json:"available"`
}

func categoryResponse(c *store.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Slug:        c.Slug,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func productResponse(p *store.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		CategoryID:    p.CategoryID,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// totalPages computes ceil(total / pageSize). A page past the end is not an
// error: it yields an empty item list with unchanged totals.
func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
