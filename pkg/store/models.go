package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a product grouping. Name and slug are unique among all
// categories regardless of active state. Deletion is soft: IsActive flips to
// false and default reads hide the row, history is preserved.
type Category struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// The FK constraint cascades at the storage level only; the service layer
	// soft-deletes categories without touching product state.
	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// Product is a sellable catalog item. Price is fixed-point NUMERIC(10,2);
// money never goes through binary floating point. StockQuantity never goes
// negative: decrements happen through a single conditional UPDATE.
type Product struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:255;not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null;index" json:"price"`
	CategoryID    int64           `gorm:"not null;index:idx_product_category_active" json:"category_id"`
	ImageURL      string          `gorm:"size:500" json:"image_url"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;default:true;index:idx_product_category_active" json:"is_active"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductFilter restricts a product list query. Nil fields do not filter.
// A nil IsActive defaults to active-only, so unfiltered reads never leak
// soft-deleted products.
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     *string
	InStock    *bool
	IsActive   *bool
}
