package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/config"
	"github.com/novamart/storefront-api/internal/application"
	"github.com/novamart/storefront-api/pkg/helpers"
	"github.com/novamart/storefront-api/pkg/mailer"
	"github.com/novamart/storefront-api/pkg/response"
	"github.com/novamart/storefront-api/pkg/validation"
)

const resetTokenTTL = 30 * time.Minute

// AuthHandler owns the password reset flow. Tokens live in Redis and
// reach the user through the email queue.
type AuthHandler struct {
	Svc    *application.UserService
	RDB    *redis.Client
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, rdb *redis.Client, cfg *config.Config, pub *helpers.RabbitPublisher, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, RDB: rdb, Cfg: cfg, Pub: pub, Logger: logger}
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ForgotPassword POST /password/forgot {email}. Always answers 200 so
// the endpoint cannot be used to probe for registered addresses.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || u == nil {
		response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "reset email sent if the account exists", nil)
		return
	}

	tok, err := genToken(32)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	if err := h.RDB.Set(c.Request.Context(), helpers.ResetTokenKey(tok), u.ID.Hex(), resetTokenTTL).Err(); err != nil {
		h.Logger.WithError(err).Error("failed to store reset token")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	link := h.Cfg.ResetPasswordURL + "?token=" + tok
	if h.Pub != nil && h.Cfg.MailSendEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplatePasswordReset,
			Data: map[string]any{
				"Name":      u.Name,
				"ResetURL":  link,
				"ExpiresIn": resetTokenTTL.String(),
				"Company":   h.Cfg.CompanyName,
			},
		}
		if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
			h.Logger.WithError(err).Warn("failed to enqueue reset email")
		}
	}

	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "reset email sent if the account exists", nil)
}

// ResetPassword POST /password/reset {token, password}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid, err := h.RDB.Get(c.Request.Context(), helpers.ResetTokenKey(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), userID, req.Password); err != nil {
		writeError(c, err)
		return
	}
	// single use
	h.RDB.Del(c.Request.Context(), helpers.ResetTokenKey(req.Token))
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password reset", nil)
}
