package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	"github.com/novamart/storefront-api/pkg/helpers"
)

func userFixture(users *mockUserRepo, images *mockImageStore) *UserService {
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Minute, time.Hour)
	return NewUserService(users, jwt, images, nil, testLogger())
}

func TestUserService_Register_Defaults(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())

	u, err := svc.Register(context.Background(), "Sam", "  Sam@Example.COM ", "hunter2-long")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, "sam@example.com", u.Email)
	assert.NotEqual(t, "hunter2-long", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "hunter2-long"))
	assert.NotEmpty(t, u.Avatar.URL)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())

	_, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other Sam", "sam@example.com", "different-pass")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUserService_Authenticate(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())
	_, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "sam@example.com", "hunter2-long")
	require.NoError(t, err)
	assert.Equal(t, "Sam", u.Name)

	_, err = svc.Authenticate(context.Background(), "sam@example.com", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "hunter2-long")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestUserService_Login_IssuesParseableTokens(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())
	registered, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	_, pair, err := svc.Login(context.Background(), "sam@example.com", "hunter2-long")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	rclaims, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, rclaims.SessionID)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())
	u, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{Name: "Samuel"})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", updated.Name)
	assert.Equal(t, "sam@example.com", updated.Email) // empty field left alone
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())
	u, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	err = svc.UpdatePassword(context.Background(), u.ID, "wrong-old", "brand-new-pass")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	require.NoError(t, svc.UpdatePassword(context.Background(), u.ID, "hunter2-long", "brand-new-pass"))

	_, err = svc.Authenticate(context.Background(), "sam@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestUserService_ResetPassword_SkipsOldCheck(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())
	u, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), u.ID, "reset-pass-123"))
	_, err = svc.Authenticate(context.Background(), "sam@example.com", "reset-pass-123")
	assert.NoError(t, err)
}

func TestUserService_UploadAvatar_ReleasesOldImage(t *testing.T) {
	images := newMockImageStore()
	svc := userFixture(newMockUserRepo(), images)
	u, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	// the placeholder avatar is shared and must never be removed
	first, err := svc.UploadAvatar(context.Background(), u.ID, ImageUpload{Filename: "me.png", ContentType: "image/png", Data: []byte("v1")})
	require.NoError(t, err)
	assert.Empty(t, images.removed)

	second, err := svc.UploadAvatar(context.Background(), u.ID, ImageUpload{Filename: "me.png", ContentType: "image/png", Data: []byte("v2")})
	require.NoError(t, err)
	assert.Contains(t, images.removed, first.Avatar.PublicID)
	assert.NotEqual(t, first.Avatar.PublicID, second.Avatar.PublicID)
}

func TestUserService_UpdateRole(t *testing.T) {
	users := newMockUserRepo()
	svc := userFixture(users, newMockImageStore())
	u, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	err = svc.UpdateRole(context.Background(), u.ID, "superuser")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	require.NoError(t, svc.UpdateRole(context.Background(), u.ID, entity.RoleAdmin))
	stored, _ := users.GetByID(context.Background(), u.ID)
	assert.True(t, stored.IsAdmin())
}

func TestUserService_Delete(t *testing.T) {
	svc := userFixture(newMockUserRepo(), newMockImageStore())
	u, err := svc.Register(context.Background(), "Sam", "sam@example.com", "hunter2-long")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	_, err = svc.GetProfile(context.Background(), u.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = svc.Delete(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
