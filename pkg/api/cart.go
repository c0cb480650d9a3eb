package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sternrassler/go-shop-catalog/pkg/cart"
)

// sessionCookie names the cart session cookie.
const sessionCookie = "cart_session_id"

type cartAddRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0,lte=100"`
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0,lte=100"`
}

// session returns the caller's cart session token, minting a new one and
// setting the cookie when absent. The cookie lives as long as the cart blob.
func (s *Server) session(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, int(cart.TTL.Seconds()), "/", "", false, true)
	return sid
}

// GET /api/cart
func (s *Server) getCart(c *gin.Context) {
	view, err := s.deps.Cart.Get(c.Request.Context(), s.session(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/cart
func (s *Server) addCartItem(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	view, err := s.deps.Cart.AddItem(c.Request.Context(), s.session(c), req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PATCH /api/cart/:product_id
func (s *Server) updateCartItem(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var req cartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	view, err := s.deps.Cart.UpdateItem(c.Request.Context(), s.session(c), productID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart/:product_id
func (s *Server) removeCartItem(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	view, err := s.deps.Cart.RemoveItem(c.Request.Context(), s.session(c), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart
func (s *Server) clearCart(c *gin.Context) {
	resp, err := s.deps.Cart.Clear(c.Request.Context(), s.session(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
