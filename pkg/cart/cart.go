// Package cart implements the session-scoped shopping cart. Carts are not
// first-class rows: each session owns one Redis blob mapping product id to
// requested quantity, and every read materializes a view by joining the
// stored quantities against live product state.
package cart

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/go-shop-catalog/pkg/cache"
	"github.com/Sternrassler/go-shop-catalog/pkg/catalog"
	"github.com/Sternrassler/go-shop-catalog/pkg/logging"
	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

const (
	// TTL is the cart blob lifetime. Every write stores the whole blob
	// again, so the expiry clock resets on each mutation.
	TTL = 7 * 24 * time.Hour

	// MaxLineQuantity caps a single cart line. Enforced at the boundary;
	// kept here as the single definition.
	MaxLineQuantity = 100
)

// ProductSource provides live product state. The cart never reads through
// the catalog cache: stale stock or prices would defeat the stock checks.
// *store.Store satisfies it.
type ProductSource interface {
	ProductByID(ctx context.Context, id int64) (*store.Product, error)
}

// BlobStore holds the serialized cart blobs. *cache.Client satisfies it.
type BlobStore interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
}

// Item is one visible cart line, priced live at read time.
type Item struct {
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	ProductImageURL string          `json:"product_image_url,omitempty"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// Cart is the materialized view of a session cart.
type Cart struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ClearResponse acknowledges a cart wipe.
type ClearResponse struct {
	Message      string `json:"message"`
	ItemsRemoved int    `json:"items_removed"`
}

// Engine owns the cart mutation protocol for all sessions. It is safe for
// concurrent use; two writers on the same session race last-write-wins,
// which is accepted because sessions are per-browser.
type Engine struct {
	products ProductSource
	blobs    BlobStore
	log      zerolog.Logger
}

// NewEngine creates a cart engine on the given product source and blob store.
func NewEngine(products ProductSource, blobs BlobStore) *Engine {
	return &Engine{
		products: products,
		blobs:    blobs,
		log:      logging.NewLogger("cart"),
	}
}

// Get materializes the cart for the session. Lines whose product is missing
// or inactive are dropped from the view but stay in storage, so a later
// reactivation brings them back with their original quantity. Never fails on
// an empty or unreachable blob store.
func (e *Engine) Get(ctx context.Context, sessionID string) (*Cart, error) {
	blob := e.readBlob(ctx, sessionID)

	view := Cart{Items: []Item{}, TotalPrice: decimal.Zero}
	for _, productID := range sortedIDs(blob) {
		quantity := blob[strconv.FormatInt(productID, 10)]

		product, err := e.products.ProductByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			e.log.Warn().Str("session_id", sessionID).Int64("product_id", productID).
				Msg("cart line references unavailable product, hidden from view")
			continue
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
		view.Items = append(view.Items, Item{
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductPrice:    product.Price,
			ProductImageURL: product.ImageURL,
			Quantity:        quantity,
			Subtotal:        subtotal,
		})
		view.TotalItems += quantity
		view.TotalPrice = view.TotalPrice.Add(subtotal)
	}

	return &view, nil
}

// AddItem puts quantity units of the product into the cart, merging with any
// existing line. The merged quantity must fit the current stock.
func (e *Engine) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Cart, error) {
	product, err := e.products.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product %d: %w", productID, catalog.ErrNotFound)
	}

	blob := e.readBlob(ctx, sessionID)
	key := strconv.FormatInt(productID, 10)

	merged := blob[key] + quantity
	if product.StockQuantity < merged {
		e.log.Warn().Str("session_id", sessionID).Int64("product_id", productID).
			Int("requested", merged).Int("stock", product.StockQuantity).
			Msg("add to cart rejected")
		return nil, fmt.Errorf("product %d: available %d: %w",
			productID, product.StockQuantity, catalog.ErrInsufficientStock)
	}

	blob[key] = merged
	e.saveBlob(ctx, sessionID, blob)
	e.log.Info().Str("session_id", sessionID).Int64("product_id", productID).
		Int("quantity", merged).Msg("cart item added")

	return e.Get(ctx, sessionID)
}

// UpdateItem replaces the stored quantity of an existing line. The line must
// already be in the cart; the product need not still be active, but the new
// quantity must fit the current stock.
func (e *Engine) UpdateItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Cart, error) {
	blob := e.readBlob(ctx, sessionID)
	key := strconv.FormatInt(productID, 10)

	if _, ok := blob[key]; !ok {
		return nil, fmt.Errorf("product %d not in cart: %w", productID, catalog.ErrNotFound)
	}

	product, err := e.products.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StockQuantity < quantity {
		available := 0
		if product != nil {
			available = product.StockQuantity
		}
		return nil, fmt.Errorf("product %d: available %d: %w",
			productID, available, catalog.ErrInsufficientStock)
	}

	blob[key] = quantity
	e.saveBlob(ctx, sessionID, blob)
	e.log.Info().Str("session_id", sessionID).Int64("product_id", productID).
		Int("quantity", quantity).Msg("cart item updated")

	return e.Get(ctx, sessionID)
}

// RemoveItem deletes a line from the cart. An empty mapping is left behind,
// which reads treat the same as an absent blob.
func (e *Engine) RemoveItem(ctx context.Context, sessionID string, productID int64) (*Cart, error) {
	blob := e.readBlob(ctx, sessionID)
	key := strconv.FormatInt(productID, 10)

	if _, ok := blob[key]; !ok {
		return nil, fmt.Errorf("product %d not in cart: %w", productID, catalog.ErrNotFound)
	}

	delete(blob, key)
	e.saveBlob(ctx, sessionID, blob)
	e.log.Info().Str("session_id", sessionID).Int64("product_id", productID).Msg("cart item removed")

	return e.Get(ctx, sessionID)
}

// Clear deletes the whole cart blob and reports how many distinct lines it
// held. Clearing an empty cart is a no-op with items_removed = 0.
func (e *Engine) Clear(ctx context.Context, sessionID string) (*ClearResponse, error) {
	blob := e.readBlob(ctx, sessionID)

	if _, err := e.blobs.Delete(ctx, cache.CartKey(sessionID)); err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("cart delete failed")
	}
	e.log.Info().Str("session_id", sessionID).Int("items_removed", len(blob)).Msg("cart cleared")

	return &ClearResponse{Message: "Cart cleared successfully", ItemsRemoved: len(blob)}, nil
}

// readBlob loads the session blob. Absent blobs and blob-store errors both
// come back as an empty mapping: cart storage is best-effort by design.
func (e *Engine) readBlob(ctx context.Context, sessionID string) map[string]int {
	blob := make(map[string]int)
	if _, err := e.blobs.GetJSON(ctx, cache.CartKey(sessionID), &blob); err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("cart read failed, treating as empty")
		return make(map[string]int)
	}
	return blob
}

// saveBlob stores the whole blob and resets the 7-day TTL, regardless of
// which line changed.
func (e *Engine) saveBlob(ctx context.Context, sessionID string, blob map[string]int) {
	if err := e.blobs.Set(ctx, cache.CartKey(sessionID), blob, TTL); err != nil {
		e.log.Warn().Err(err).Str("session_id", sessionID).Msg("cart write failed")
	}
}

// sortedIDs returns the blob's product ids in ascending order, for a
// deterministic view. Unparseable keys are skipped.
func sortedIDs(blob map[string]int) []int64 {
	ids := make([]int64, 0, len(blob))
	for key := range blob {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
