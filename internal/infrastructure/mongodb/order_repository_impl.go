package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	"github.com/novamart/storefront-api/internal/domain/repository"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection("orders")}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Order, error) {
	var o entity.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus writes only the lifecycle fields; the rest of the order
// document is left untouched.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.OrderStatus, deliveredAt *time.Time) error {
	set := bson.M{"orderStatus": status}
	if deliveredAt != nil {
		set["deliveredAt"] = *deliveredAt
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
