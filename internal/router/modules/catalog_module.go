package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novamart/storefront-api/internal/container"
	"github.com/novamart/storefront-api/internal/domain/entity"
	handlers "github.com/novamart/storefront-api/internal/interface/http"
	"github.com/novamart/storefront-api/internal/interface/middleware"
	"github.com/novamart/storefront-api/pkg/helpers"
)

// CatalogModule wires the public catalog, reviews and the admin
// product endpoints.
type CatalogModule struct {
	Products *handlers.ProductHandler
	Reviews  *handlers.ReviewHandler
	JWT      *helpers.JWTManager
}

func NewCatalogModule(products *handlers.ProductHandler, reviews *handlers.ReviewHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Products: products, Reviews: reviews, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	// Public browsing, generous per-IP limit, internal IPs bypass it
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/products", browseLimiter, m.Products.List)
	rg.GET("/product/:id", browseLimiter, m.Products.Get)
	rg.GET("/reviews", browseLimiter, m.Reviews.List)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/review", m.Reviews.Submit)
		auth.DELETE("/reviews", m.Reviews.Delete)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/products", m.Products.AdminList)
		admin.GET("/products/search", m.Products.AdminSearch)
		admin.POST("/product", m.Products.AdminCreate)
		admin.PUT("/product/:id", m.Products.AdminUpdate)
		admin.DELETE("/product/:id", m.Products.AdminDelete)
	}
}
