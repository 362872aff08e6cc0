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

type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/order", m.Handler.Create)
		auth.GET("/order/:id", m.Handler.Get)
		auth.GET("/orders/user", m.Handler.ListMine)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/orders", m.Handler.AdminList)
		admin.GET("/order/:id", m.Handler.AdminGet)
		admin.PUT("/order/:id", m.Handler.AdminUpdateStatus)
		admin.DELETE("/order/:id", m.Handler.AdminDelete)
	}
}
