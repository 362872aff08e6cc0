package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/entity"
)

// OrderRepository defines persistence for order documents. UpdateStatus
// writes only the status and delivery timestamp so a lifecycle change
// can never clobber the rest of the document.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus, deliveredAt *time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
