//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupStore starts a PostgreSQL container, connects and migrates.
func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	st, err := Open(Config{
		Host: host, Port: port.Port(),
		User: "shop", Password: "shop", Name: "shop", SSLMode: "disable",
	})
	require.NoError(t, err, "connect")
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.AutoMigrate(), "migrate")
	return st
}

func seedCatalog(t *testing.T, st *Store) (Category, []Product) {
	t.Helper()
	ctx := context.Background()

	books := Category{Name: "Books", Slug: "books", IsActive: true}
	require.NoError(t, st.CreateCategory(ctx, &books))

	products := []Product{
		{Name: "Novel", Description: "a long story", Price: decimal.NewFromFloat(19.99),
			CategoryID: books.ID, StockQuantity: 5, IsActive: true},
		{Name: "Atlas", Description: "maps of the world", Price: decimal.NewFromFloat(39.90),
			CategoryID: books.ID, StockQuantity: 0, IsActive: true},
		{Name: "Retired", Description: "no longer sold", Price: decimal.NewFromFloat(9.99),
			CategoryID: books.ID, StockQuantity: 3, IsActive: false},
	}
	for i := range products {
		require.NoError(t, st.CreateProduct(ctx, &products[i]))
		// Distinct created_at for a stable newest-first order.
		time.Sleep(5 * time.Millisecond)
	}
	return books, products
}

func TestStore_CategoryLifecycle(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	books := Category{Name: "Books", Slug: "books", IsActive: true}
	require.NoError(t, st.CreateCategory(ctx, &books))
	assert.NotZero(t, books.ID)

	// Unique slug is enforced by the database too.
	dup := Category{Name: "Books 2", Slug: "books", IsActive: true}
	assert.Error(t, st.CreateCategory(ctx, &dup))

	bySlug, err := st.CategoryBySlug(ctx, "books")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, books.ID, bySlug.ID)

	missing, err := st.CategoryByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := st.UpdateCategory(ctx, books.ID, map[string]any{"description": "printed matter"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "printed matter", updated.Description)

	ok, err := st.SoftDeleteCategory(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	visible, err := st.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := st.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ProductFiltersAndOrder(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	_, products := seedCatalog(t, st)

	// Default listing: active only, newest first.
	items, total, err := st.ListProducts(ctx, ProductFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Atlas", items[0].Name)
	assert.Equal(t, "Novel", items[1].Name)

	// Case-insensitive search across name and description.
	search := "MAPS"
	items, total, err = st.ListProducts(ctx, ProductFilter{Search: &search}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Atlas", items[0].Name)

	// Inclusive price bounds.
	min := decimal.NewFromFloat(19.99)
	max := decimal.NewFromFloat(19.99)
	_, total, err = st.ListProducts(ctx, ProductFilter{MinPrice: &min, MaxPrice: &max}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// In-stock only.
	inStock := true
	items, _, err = st.ListProducts(ctx, ProductFilter{InStock: &inStock}, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Novel", items[0].Name)

	// Offset past the end yields an empty page with the full total.
	items, total, err = st.ListProducts(ctx, ProductFilter{}, 40, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, items)

	// The inactive product is still reachable by id.
	retired, err := st.ProductByID(ctx, products[2].ID)
	require.NoError(t, err)
	require.NotNil(t, retired)
	assert.False(t, retired.IsActive)
}

func TestStore_ActiveProductCounts(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	books, _ := seedCatalog(t, st)

	empty := Category{Name: "Empty", Slug: "empty", IsActive: true}
	require.NoError(t, st.CreateCategory(ctx, &empty))

	counts, err := st.ActiveProductCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[books.ID])
	assert.NotContains(t, counts, empty.ID)
}

func TestStore_StockDecrementBoundary(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	_, products := seedCatalog(t, st)
	novel := products[0] // stock 5

	ok, err := st.CheckStock(ctx, novel.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.CheckStock(ctx, novel.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = st.CheckStock(ctx, 999, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// Over-decrement fails and leaves stock untouched.
	ok, err = st.DecrementStock(ctx, novel.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)
	current, err := st.ProductByID(ctx, novel.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, current.StockQuantity)

	// Exact decrement drains the stock to zero.
	ok, err = st.DecrementStock(ctx, novel.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	current, err = st.ProductByID(ctx, novel.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.StockQuantity)
}

func TestStore_ProductUpdateAndSoftDelete(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	_, products := seedCatalog(t, st)
	novel := products[0]

	price := decimal.NewFromFloat(24.99)
	updated, err := st.UpdateProduct(ctx, novel.ID, map[string]any{
		"price": price, "stock_quantity": 7,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, 7, updated.StockQuantity)

	none, err := st.UpdateProduct(ctx, 999, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Nil(t, none)

	ok, err := st.SoftDeleteProduct(ctx, novel.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, total, err := st.ListProducts(ctx, ProductFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
