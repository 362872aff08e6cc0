package application

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	repo "github.com/novamart/storefront-api/internal/domain/repository"
	"github.com/novamart/storefront-api/pkg/helpers"
)

// UserService owns accounts: registration, credential checks, token
// issuance with a Redis-backed session, profile edits and the admin
// account operations.
type UserService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Images ImageStore
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, images ImageStore, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, JWT: jwt, Images: images, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an account with the user role and a placeholder
// avatar. The unique email index surfaces duplicates as a conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("password hashing failed", err)
	}
	u := &entity.User{
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hash,
		Role:     entity.RoleUser,
		Avatar:   entity.Image{PublicID: "avatars/default", URL: "https://storage.googleapis.com/novamart-public/avatars/default.png"},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || u == nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	return u, nil
}

// IssueTokens generates the access/refresh pair and records the session
// hash, including the role the auth middleware later checks.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID.Hex(), sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID.Hex(), sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := helpers.SessionKey(u.ID.Hex())
		fields := map[string]any{
			"user_id":    u.ID.Hex(),
			"email":      u.Email,
			"name":       u.Name,
			"role":       u.Role,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens after validating the
// refresh token against the current session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.SessionKey(claims.UserID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, apperr.Unauthorized("session expired")
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the Redis session; the handler clears the cookies.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, helpers.SessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*entity.User, error) {
	return s.Users.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		key := helpers.SessionKey(u.ID.Hex())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"email":      u.Email,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, nil
}

// UploadAvatar stores a new avatar image and releases the previous one.
func (s *UserService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, upload ImageUpload) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(upload.Filename))
	objectPath := path.Join("avatars", userID.Hex(), uuid.NewString()+ext)
	url, err := s.Images.Upload(ctx, objectPath, upload.ContentType, bytes.NewReader(upload.Data))
	if err != nil {
		return nil, apperr.Internal("avatar upload failed", err)
	}
	old := u.Avatar
	u.Avatar = entity.Image{PublicID: objectPath, URL: url}
	if err := s.Users.Update(ctx, u); err != nil {
		_ = s.Images.Remove(ctx, objectPath)
		return nil, err
	}
	if old.PublicID != "" && !strings.HasPrefix(old.PublicID, "avatars/default") {
		if rmErr := s.Images.Remove(ctx, old.PublicID); rmErr != nil && s.Logger != nil {
			s.Logger.WithError(rmErr).WithField("public_id", old.PublicID).Warn("avatar release failed")
		}
	}
	return u, nil
}

// UpdatePassword changes the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return apperr.Unauthorized("old password is incorrect")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("password hashing failed", err)
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

// ResetPassword sets a new password without the current one; callers
// must have verified a reset token first.
func (s *UserService) ResetPassword(ctx context.Context, userID primitive.ObjectID, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("password hashing failed", err)
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Admin operations.

func (s *UserService) ListAll(ctx context.Context) ([]entity.User, error) {
	return s.Users.ListAll(ctx)
}

func (s *UserService) GetAny(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return apperr.Validation("unknown role")
	}
	return s.Users.UpdateRole(ctx, id, role)
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, helpers.SessionKey(id.Hex())).Err()
	}
	return nil
}
