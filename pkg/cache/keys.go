package cache

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Wildcard patterns used for bulk invalidation after catalog mutations.
const (
	// CategoryListPattern matches every cached category list.
	CategoryListPattern = "categories:*"

	// ProductListPattern matches every cached product list page.
	ProductListPattern = "products:*"
)

// CategoryListKey returns the cache key for a category list response.
func CategoryListKey(includeInactive, withProductCount bool) string {
	return fmt.Sprintf("categories:all:inactive:%t:count:%t", includeInactive, withProductCount)
}

// CategoryKey returns the cache key for a single category by id.
func CategoryKey(id int64) string {
	return fmt.Sprintf("category:%d", id)
}

// CategorySlugKey returns the cache key for a single category by slug.
func CategorySlugKey(slug string) string {
	return "category:slug:" + slug
}

// ProductKey returns the cache key for a single product by id.
func ProductKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// CartKey returns the cache key for a session cart blob.
func CartKey(sessionID string) string {
	return "cart:" + sessionID
}

// ProductListKey identifies one cached page of a filtered product list.
//
// Absent filters must not appear in the key, so an unfiltered query and a
// filtered one can never collide.
type ProductListKey struct {
	Page     int
	PageSize int

	CategoryID *int64
	Search     *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	IsActive   *bool
}

// String generates a deterministic cache key string.
// Format: products:page:1:size:20[:category:3][:search:term][:min:1.50][:max:9.99][:instock:true][:active:true]
func (k ProductListKey) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "products:page:%d:size:%d", k.Page, k.PageSize)

	if k.CategoryID != nil {
		fmt.Fprintf(&b, ":category:%d", *k.CategoryID)
	}
	// The search term is caller-supplied free text. Escaping keeps a term
	// containing ":" from impersonating another filter combination.
	if k.Search != nil {
		fmt.Fprintf(&b, ":search:%s", url.QueryEscape(*k.Search))
	}
	if k.MinPrice != nil {
		fmt.Fprintf(&b, ":min:%s", k.MinPrice.String())
	}
	if k.MaxPrice != nil {
		fmt.Fprintf(&b, ":max:%s", k.MaxPrice.String())
	}
	if k.InStock != nil {
		fmt.Fprintf(&b, ":instock:%t", *k.InStock)
	}
	if k.IsActive != nil {
		fmt.Fprintf(&b, ":active:%t", *k.IsActive)
	}

	return b.String()
}
