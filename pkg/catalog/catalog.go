package catalog

import (
	"context"
	"time"

	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

// Cache TTLs bound the maximum staleness window after a failed
// invalidation; invalidation itself is best-effort pattern deletion.
const (
	// entityTTL covers single-entity reads and category lists.
	entityTTL = 600 * time.Second

	// productListTTL covers paginated product lists, which go stale faster.
	productListTTL = 300 * time.Second
)

// Cache is the slice of the cache client the services depend on. Every
// implementation must treat the backing store as disposable: an error from
// any method makes the service fall through to the database.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	DeletePattern(ctx context.Context, pattern string) (int64, error)
}

// CategoryStore is the persistence surface the category service depends on.
// *store.Store satisfies it.
type CategoryStore interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]store.Category, error)
	CategoryByID(ctx context.Context, id int64) (*store.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*store.Category, error)
	CategoryByName(ctx context.Context, name string) (*store.Category, error)
	CreateCategory(ctx context.Context, category *store.Category) error
	UpdateCategory(ctx context.Context, id int64, fields map[string]any) (*store.Category, error)
	SoftDeleteCategory(ctx context.Context, id int64) (bool, error)
	ActiveProductCounts(ctx context.Context) (map[int64]int64, error)
}

// ProductStore is the persistence surface the product service depends on.
// *store.Store satisfies it.
type ProductStore interface {
	ListProducts(ctx context.Context, filter store.ProductFilter, offset, limit int) ([]store.Product, int64, error)
	ProductByID(ctx context.Context, id int64) (*store.Product, error)
	CreateProduct(ctx context.Context, product *store.Product) error
	UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*store.Product, error)
	SoftDeleteProduct(ctx context.Context, id int64) (bool, error)
	CheckStock(ctx context.Context, id int64, quantity int) (bool, error)
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
}
