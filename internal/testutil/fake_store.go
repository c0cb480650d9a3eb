// Package testutil provides in-memory fakes of the catalog store and the
// cache for unit testing the services without PostgreSQL or Redis.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

// FakeCatalog is an in-memory stand-in for *store.Store. It mirrors the
// store's query semantics (active-only defaults, newest-first ordering,
// conditional stock decrement) closely enough for service-level tests.
type FakeCatalog struct {
	mu         sync.Mutex
	categories map[int64]*store.Category
	products   map[int64]*store.Product
	nextCat    int64
	nextProd   int64
}

// NewFakeCatalog creates an empty fake store.
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		categories: make(map[int64]*store.Category),
		products:   make(map[int64]*store.Product),
	}
}

// SeedCategory inserts a category directly, assigning an id when unset.
func (f *FakeCatalog) SeedCategory(c store.Category) store.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.insertCategory(&c)
}

// SeedProduct inserts a product directly, assigning an id when unset.
func (f *FakeCatalog) SeedProduct(p store.Product) store.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.insertProduct(&p)
}

// SetProductActive flips a product's active flag in place.
func (f *FakeCatalog) SetProductActive(id int64, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		p.IsActive = active
	}
}

func (f *FakeCatalog) insertCategory(c *store.Category) *store.Category {
	if c.ID == 0 {
		f.nextCat++
		c.ID = f.nextCat
	} else if c.ID > f.nextCat {
		f.nextCat = c.ID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	cp := *c
	f.categories[c.ID] = &cp
	return c
}

func (f *FakeCatalog) insertProduct(p *store.Product) *store.Product {
	if p.ID == 0 {
		f.nextProd++
		p.ID = f.nextProd
	} else if p.ID > f.nextProd {
		f.nextProd = p.ID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	cp := *p
	f.products[p.ID] = &cp
	return p
}

// ListCategories returns categories ordered by name.
func (f *FakeCatalog) ListCategories(_ context.Context, includeInactive bool) ([]store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.Category
	for _, c := range f.categories {
		if !includeInactive && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CategoryByID returns the category or nil.
func (f *FakeCatalog) CategoryByID(_ context.Context, id int64) (*store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// CategoryBySlug returns the category or nil.
func (f *FakeCatalog) CategoryBySlug(_ context.Context, slug string) (*store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// CategoryByName returns the category or nil.
func (f *FakeCatalog) CategoryByName(_ context.Context, name string) (*store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateCategory inserts the category and fills server-assigned fields.
func (f *FakeCatalog) CreateCategory(_ context.Context, c *store.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCategory(c)
	return nil
}

// UpdateCategory applies the field map, returning nil when absent.
func (f *FakeCatalog) UpdateCategory(_ context.Context, id int64, fields map[string]any) (*store.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "description":
			c.Description = v.(string)
		case "slug":
			c.Slug = v.(string)
		case "is_active":
			c.IsActive = v.(bool)
		}
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

// SoftDeleteCategory marks the category inactive.
func (f *FakeCatalog) SoftDeleteCategory(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.categories[id]
	if !ok {
		return false, nil
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
	return true, nil
}

// ActiveProductCounts counts active products per category.
func (f *FakeCatalog) ActiveProductCounts(_ context.Context) (map[int64]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[int64]int64)
	for _, p := range f.products {
		if p.IsActive {
			counts[p.CategoryID]++
		}
	}
	return counts, nil
}

// ListProducts filters, orders and paginates like the real store.
func (f *FakeCatalog) ListProducts(_ context.Context, filter store.ProductFilter, offset, limit int) ([]store.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	active := true
	if filter.IsActive != nil {
		active = *filter.IsActive
	}

	var matched []store.Product
	for _, p := range f.products {
		if p.IsActive != active {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.Search != nil {
			term := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), term) &&
				!strings.Contains(strings.ToLower(p.Description), term) {
				continue
			}
		}
		if filter.InStock != nil && *filter.InStock && p.StockQuantity <= 0 {
			continue
		}
		matched = append(matched, *p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []store.Product{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ProductByID returns the product or nil.
func (f *FakeCatalog) ProductByID(_ context.Context, id int64) (*store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// CreateProduct inserts the product and fills server-assigned fields.
func (f *FakeCatalog) CreateProduct(_ context.Context, p *store.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertProduct(p)
	return nil
}

// UpdateProduct applies the field map, returning nil when absent.
func (f *FakeCatalog) UpdateProduct(_ context.Context, id int64, fields map[string]any) (*store.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "price":
			p.Price = v.(decimal.Decimal)
		case "category_id":
			p.CategoryID = v.(int64)
		case "image_url":
			p.ImageURL = v.(string)
		case "stock_quantity":
			p.StockQuantity = v.(int)
		case "is_active":
			p.IsActive = v.(bool)
		}
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

// SoftDeleteProduct marks the product inactive.
func (f *FakeCatalog) SoftDeleteProduct(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return false, nil
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	return true, nil
}

// CheckStock reports whether the product exists with enough stock.
func (f *FakeCatalog) CheckStock(_ context.Context, id int64, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return false, nil
	}
	return p.StockQuantity >= quantity, nil
}

// DecrementStock applies the conditional decrement.
func (f *FakeCatalog) DecrementStock(_ context.Context, id int64, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}
	p.StockQuantity -= quantity
	return true, nil
}
