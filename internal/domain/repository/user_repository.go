package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/entity"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error
	ListAll(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
