package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Sternrassler/go-shop-catalog/internal/testutil"
	"github.com/Sternrassler/go-shop-catalog/pkg/cache"
	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

func newCategoryFixture() (*CategoryService, *testutil.FakeCatalog, *testutil.FakeCache) {
	st := testutil.NewFakeCatalog()
	c := testutil.NewFakeCache()
	return NewCategoryService(st, c), st, c
}

func TestCategoryService_ListCachesResponse(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})
	st.SeedCategory(store.Category{Name: "Audio", Slug: "audio", IsActive: true})

	resp, err := svc.List(ctx, false, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2", resp.Total)
	}
	// Name-ordered.
	if resp.Items[0].Name != "Audio" || resp.Items[1].Name != "Books" {
		t.Errorf("unexpected order: %q, %q", resp.Items[0].Name, resp.Items[1].Name)
	}

	if !fc.Has(cache.CategoryListKey(false, false)) {
		t.Error("list response was not cached")
	}

	// A category added behind the cache's back must not show up: the second
	// read is served from the cache until invalidation or expiry.
	st.SeedCategory(store.Category{Name: "Video", Slug: "video", IsActive: true})
	resp, err = svc.List(ctx, false, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2 (cached response expected)", resp.Total)
	}
}

func TestCategoryService_ListWithProductCount(t *testing.T) {
	svc, st, _ := newCategoryFixture()
	ctx := context.Background()

	books := st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})
	st.SeedCategory(store.Category{Name: "Empty", Slug: "empty", IsActive: true})
	st.SeedProduct(store.Product{Name: "Novel", CategoryID: books.ID, IsActive: true})
	st.SeedProduct(store.Product{Name: "Atlas", CategoryID: books.ID, IsActive: true})
	st.SeedProduct(store.Product{Name: "Hidden", CategoryID: books.ID, IsActive: false})

	resp, err := svc.List(ctx, false, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	byName := make(map[string]CategoryResponse)
	for _, item := range resp.Items {
		byName[item.Name] = item
	}
	if got := byName["Books"].ProductCount; got == nil || *got != 2 {
		t.Errorf("Books product_count = %v, want 2 (active products only)", got)
	}
	if got := byName["Empty"].ProductCount; got == nil || *got != 0 {
		t.Errorf("Empty product_count = %v, want 0", got)
	}
}

func TestCategoryService_ListIncludeInactive(t *testing.T) {
	svc, st, _ := newCategoryFixture()
	ctx := context.Background()

	st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})
	st.SeedCategory(store.Category{Name: "Retired", Slug: "retired", IsActive: false})

	visible, err := svc.List(ctx, false, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if visible.Total != 1 {
		t.Errorf("default list Total = %d, want 1", visible.Total)
	}

	all, err := svc.List(ctx, true, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("include-inactive list Total = %d, want 2", all.Total)
	}
}

func TestCategoryService_GetByID(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	books := st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})

	resp, err := svc.GetByID(ctx, books.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if resp.Slug != "books" {
		t.Errorf("Slug = %q, want %q", resp.Slug, "books")
	}
	if !fc.Has(cache.CategoryKey(books.ID)) {
		t.Error("category was not cached")
	}

	_, err = svc.GetByID(ctx, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestCategoryService_GetBySlug(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})

	resp, err := svc.GetBySlug(ctx, "books")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if resp.Name != "Books" {
		t.Errorf("Name = %q, want %q", resp.Name, "Books")
	}
	if !fc.Has(cache.CategorySlugKey("books")) {
		t.Error("category was not cached under its slug key")
	}

	if _, err := svc.GetBySlug(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBySlug(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCategoryService_CreateConflicts(t *testing.T) {
	svc, st, _ := newCategoryFixture()
	ctx := context.Background()

	// Uniqueness spans inactive categories too.
	st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: false})

	tests := []struct {
		name string
		in   CategoryCreate
	}{
		{"duplicate name", CategoryCreate{Name: "Books", Slug: "books-2"}},
		{"duplicate slug", CategoryCreate{Name: "Books 2", Slug: "books"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.in); !errors.Is(err, ErrConflict) {
				t.Errorf("Create error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestCategoryService_CreateInvalidatesLists(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})

	// Warm both list caches.
	if _, err := svc.List(ctx, false, true); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	fc.Put("products:page:1:size:20", []byte(`{}`), 0)

	created, err := svc.Create(ctx, CategoryCreate{Name: "Audio", Slug: "audio"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 || !created.IsActive {
		t.Errorf("created category not initialized: %+v", created)
	}

	if fc.Has(cache.CategoryListKey(false, true)) {
		t.Error("category list cache survived a create")
	}
	if fc.Has("products:page:1:size:20") {
		t.Error("product list cache survived a category create")
	}

	// The next list read must see both categories.
	resp, err := svc.List(ctx, false, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total after create = %d, want 2", resp.Total)
	}
}

func TestCategoryService_UpdateInvalidatesOldSlug(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	books := st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})

	// Warm the slug and id keys.
	if _, err := svc.GetBySlug(ctx, "books"); err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, books.ID); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	slug := "literature"
	updated, err := svc.Update(ctx, books.ID, CategoryUpdate{Slug: &slug})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Slug != "literature" {
		t.Errorf("Slug = %q, want %q", updated.Slug, "literature")
	}

	// The rename must invalidate the entry cached under the old slug.
	if fc.Has(cache.CategorySlugKey("books")) {
		t.Error("old slug cache entry survived the rename")
	}
	if fc.Has(cache.CategoryKey(books.ID)) {
		t.Error("id cache entry survived the update")
	}

	if _, err := svc.GetBySlug(ctx, "books"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBySlug(old slug) error = %v, want ErrNotFound", err)
	}
}

func TestCategoryService_UpdateErrors(t *testing.T) {
	svc, st, _ := newCategoryFixture()
	ctx := context.Background()

	books := st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})
	st.SeedCategory(store.Category{Name: "Audio", Slug: "audio", IsActive: true})

	if _, err := svc.Update(ctx, books.ID, CategoryUpdate{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("empty update error = %v, want ErrEmptyUpdate", err)
	}

	name := "Audio"
	if _, err := svc.Update(ctx, books.ID, CategoryUpdate{Name: &name}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate name update error = %v, want ErrConflict", err)
	}

	if _, err := svc.Update(ctx, 999, CategoryUpdate{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing category error = %v, want ErrNotFound", err)
	}
}

func TestCategoryService_DeleteSoftDeletes(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	books := st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})
	if _, err := svc.GetByID(ctx, books.ID); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	resp, err := svc.Delete(ctx, books.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if resp.CategoryID != books.ID {
		t.Errorf("CategoryID = %d, want %d", resp.CategoryID, books.ID)
	}
	if fc.Has(cache.CategoryKey(books.ID)) {
		t.Error("id cache entry survived the delete")
	}

	// Soft delete: the row stays, hidden from default reads.
	stored, _ := st.CategoryByID(ctx, books.ID)
	if stored == nil || stored.IsActive {
		t.Errorf("category not soft-deleted: %+v", stored)
	}

	if _, err := svc.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing category error = %v, want ErrNotFound", err)
	}
}

// An unreachable cache never fails a read: every operation falls through to
// the store.
func TestCategoryService_CacheDownDegradesToStore(t *testing.T) {
	svc, st, fc := newCategoryFixture()
	ctx := context.Background()

	books := st.SeedCategory(store.Category{Name: "Books", Slug: "books", IsActive: true})
	fc.Fail = true

	if _, err := svc.List(ctx, false, true); err != nil {
		t.Errorf("List with cache down failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, books.ID); err != nil {
		t.Errorf("GetByID with cache down failed: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, "books"); err != nil {
		t.Errorf("GetBySlug with cache down failed: %v", err)
	}
	if _, err := svc.Create(ctx, CategoryCreate{Name: "Audio", Slug: "audio"}); err != nil {
		t.Errorf("Create with cache down failed: %v", err)
	}
}
