package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novamart/storefront-api/internal/container"
	handlers "github.com/novamart/storefront-api/internal/interface/http"
	"github.com/novamart/storefront-api/internal/interface/middleware"
	"github.com/novamart/storefront-api/pkg/helpers"
)

type PaymentModule struct {
	Handler *handlers.PaymentHandler
	JWT     *helpers.JWTManager
}

func NewPaymentModule(h *handlers.PaymentHandler, jwt *helpers.JWTManager) *PaymentModule {
	return &PaymentModule{Handler: h, JWT: jwt}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/payment/process", m.Handler.Process)
	}
}
