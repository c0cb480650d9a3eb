// Package api is the HTTP boundary: gin handlers over the catalog services
// and the cart engine, plus health and metrics endpoints. Input validation
// lives here; the services only see well-formed requests.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/go-shop-catalog/pkg/cart"
	"github.com/Sternrassler/go-shop-catalog/pkg/catalog"
	"github.com/Sternrassler/go-shop-catalog/pkg/config"
	"github.com/Sternrassler/go-shop-catalog/pkg/logging"
)

// Pinger is a readiness probe on a backing connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the constructed core components the handlers delegate to.
// DB and Cache are optional probes for the health endpoint.
type Deps struct {
	Categories *catalog.CategoryService
	Products   *catalog.ProductService
	Cart       *cart.Engine
	DB         Pinger
	Cache      Pinger
}

// Server wires the handlers. Construct with NewServer, then mount via
// Router.
type Server struct {
	deps       Deps
	pagination config.PaginationConfig
	log        zerolog.Logger
}

// NewServer creates the HTTP boundary over the given components.
func NewServer(deps Deps, pagination config.PaginationConfig) *Server {
	if pagination.DefaultPageSize <= 0 {
		pagination.DefaultPageSize = 20
	}
	if pagination.MaxPageSize <= 0 {
		pagination.MaxPageSize = 100
	}
	return &Server{
		deps:       deps,
		pagination: pagination,
		log:        logging.NewLogger("api"),
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestMetrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", s.serviceInfo)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		categories := apiGroup.Group("/categories")
		categories.GET("", s.listCategories)
		categories.POST("", s.createCategory)
		categories.GET("/slug/:slug", s.getCategoryBySlug)
		categories.GET("/:id", s.getCategory)
		categories.PATCH("/:id", s.updateCategory)
		categories.DELETE("/:id", s.deleteCategory)

		products := apiGroup.Group("/products")
		products.GET("", s.listProducts)
		products.POST("", s.createProduct)
		products.GET("/category/:category_id", s.listProductsByCategory)
		products.GET("/:id", s.getProduct)
		products.PATCH("/:id", s.updateProduct)
		products.DELETE("/:id", s.deleteProduct)
		products.GET("/:id/availability", s.checkAvailability)

		cartGroup := apiGroup.Group("/cart")
		cartGroup.GET("", s.getCart)
		cartGroup.POST("", s.addCartItem)
		cartGroup.DELETE("", s.clearCart)
		cartGroup.PATCH("/:product_id", s.updateCartItem)
		cartGroup.DELETE("/:product_id", s.removeCartItem)
	}

	return r
}

func (s *Server) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "shop-catalog-api",
		"status":  "running",
	})
}

// health reports readiness. An unreachable database makes the service
// unavailable; an unreachable cache only degrades it.
func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	dbState, cacheState := "ok", "ok"

	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(c.Request.Context()); err != nil {
			dbState = "unreachable"
			status = http.StatusServiceUnavailable
			s.log.Error().Err(err).Msg("database health check failed")
		}
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(c.Request.Context()); err != nil {
			cacheState = "unreachable"
			s.log.Warn().Err(err).Msg("cache health check failed")
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbState,
		"cache":    cacheState,
	})
}
