package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/go-shop-catalog/pkg/store"
)

type productCreateRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	CategoryID    int64           `json:"category_id" binding:"required,gt=0"`
	ImageURL      string          `json:"image_url" binding:"omitempty,max=500"`
	StockQuantity int             `json:"stock_quantity" binding:"gte=0"`
}

type productUpdateRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CategoryID    *int64           `json:"category_id" binding:"omitempty,gt=0"`
	ImageURL      *string          `json:"image_url" binding:"omitempty,max=500"`
	StockQuantity *int             `json:"stock_quantity" binding:"omitempty,gte=0"`
	IsActive      *bool            `json:"is_active"`
}

// maxSearchLen caps the free-text search term.
const maxSearchLen = 100

// validPrice enforces the catalog price shape: strictly positive with at
// most two decimal places.
func validPrice(price decimal.Decimal) bool {
	return price.IsPositive() && price.Equal(price.Round(2))
}

// GET /api/products?page=&page_size=&category_id=&search=&min_price=&max_price=&in_stock=&is_active=
func (s *Server) listProducts(c *gin.Context) {
	filter, ok := productFilter(c)
	if !ok {
		return
	}
	s.serveProductList(c, filter)
}

// GET /api/products/category/:category_id
func (s *Server) listProductsByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	filter, ok := productFilter(c)
	if !ok {
		return
	}
	filter.CategoryID = &categoryID
	s.serveProductList(c, filter)
}

func (s *Server) serveProductList(c *gin.Context, filter store.ProductFilter) {
	page, pageSize, ok := s.pageParams(c)
	if !ok {
		return
	}
	resp, err := s.deps.Products.List(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/products/:id
func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := s.deps.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/products
func (s *Server) createProduct(c *gin.Context) {
	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if !validPrice(req.Price) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive with at most two decimal places"})
		return
	}

	resp, err := s.deps.Products.Create(c.Request.Context(), catalogProductCreate(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/products/:id
func (s *Server) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if req.Price != nil && !validPrice(*req.Price) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive with at most two decimal places"})
		return
	}

	resp, err := s.deps.Products.Update(c.Request.Context(), id, catalogProductUpdate(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/products/:id
func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := s.deps.Products.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/products/:id/availability?quantity=
func (s *Server) checkAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	resp, err := s.deps.Products.CheckAvailability(c.Request.Context(), id, quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// pageParams parses and clamps pagination. page_size beyond the configured
// maximum is capped, not rejected.
func (s *Server) pageParams(c *gin.Context) (page, pageSize int, ok bool) {
	var err error
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return 0, 0, false
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size",
		strconv.Itoa(s.pagination.DefaultPageSize)))
	if err != nil || pageSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
		return 0, 0, false
	}
	if pageSize > s.pagination.MaxPageSize {
		pageSize = s.pagination.MaxPageSize
	}
	return page, pageSize, true
}

// productFilter assembles the list filter from query parameters. Absent
// parameters leave the corresponding filter unset.
func productFilter(c *gin.Context) (store.ProductFilter, bool) {
	var filter store.ProductFilter

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return filter, false
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("search"); raw != "" {
		if len(raw) > maxSearchLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "search term too long"})
			return filter, false
		}
		filter.Search = &raw
	}
	if raw := c.Query("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return filter, false
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return filter, false
		}
		filter.MaxPrice = &price
	}
	if raw := c.Query("in_stock"); raw != "" {
		inStock := raw == "true"
		filter.InStock = &inStock
	}
	// is_active=false lists only inactive products (admin view); absent
	// means the default active-only listing.
	if raw := c.Query("is_active"); raw != "" {
		isActive := raw == "true"
		filter.IsActive = &isActive
	}

	return filter, true
}
