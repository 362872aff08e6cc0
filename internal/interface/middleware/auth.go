package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/novamart/storefront-api/pkg/helpers"
	"github.com/novamart/storefront-api/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
	CtxUserRoleKey = "userRole"
)

// Auth validates the access token cookie and ensures an active session
// exists in Redis. It sets userID, userName, userEmail and userRole in
// the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		key := helpers.SessionKey(claims.UserID)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, data["user_id"])
		c.Set(CtxUserNameKey, data["name"])
		c.Set("userEmail", data["email"])
		c.Set(CtxUserRoleKey, data["role"])
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session carries one of the
// given roles. Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Error[any](c, http.StatusForbidden, "role "+role+" is not allowed to access this resource", nil)
		c.Abort()
	}
}
