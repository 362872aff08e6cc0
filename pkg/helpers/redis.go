package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SessionKey locates the session hash for a user. The hash carries the
// profile snapshot plus the current sid; login overwrites it, so one
// session per user.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

// ResetTokenKey locates a single-use password reset token. The value is
// the owning user's id.
func ResetTokenKey(token string) string {
	return "pwd:reset:token:" + token
}
