package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novamart/storefront-api/internal/container"
	handlers "github.com/novamart/storefront-api/internal/interface/http"
	"github.com/novamart/storefront-api/internal/interface/middleware"
)

// AuthModule wires the public password reset endpoints.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/password/forgot", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/password/reset", resetLimiter, m.Handler.ResetPassword)
}
