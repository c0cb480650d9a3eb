package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type categoryCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Slug        string `json:"slug" binding:"required,max=100"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Slug        *string `json:"slug" binding:"omitempty,min=1,max=100"`
	IsActive    *bool   `json:"is_active"`
}

// GET /api/categories?include_inactive=&with_product_count=
func (s *Server) listCategories(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	withCount := c.Query("with_product_count") == "true"

	resp, err := s.deps.Categories.List(c.Request.Context(), includeInactive, withCount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/categories/:id
func (s *Server) getCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := s.deps.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/categories/slug/:slug
func (s *Server) getCategoryBySlug(c *gin.Context) {
	resp, err := s.deps.Categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/categories
func (s *Server) createCategory(c *gin.Context) {
	var req categoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := s.deps.Categories.Create(c.Request.Context(), catalogCategoryCreate(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/categories/:id
func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := s.deps.Categories.Update(c.Request.Context(), id, catalogCategoryUpdate(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/categories/:id
func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := s.deps.Categories.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// pathID parses a numeric path parameter, answering 400 itself on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
