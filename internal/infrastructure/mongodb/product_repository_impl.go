package mongodb

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	"github.com/novamart/storefront-api/internal/domain/repository"
)

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection("products")}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now()
	if p.Reviews == nil {
		p.Reviews = []entity.Review{}
	}
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	var p entity.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"stock":       p.Stock,
		"image":       p.Images,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// buildFilter translates a ProductQuery into a bson filter. Keyword is a
// case-insensitive regex on the name; plain keys become equality matches
// and bracketed keys ("price[gte]") become range operators.
func buildFilter(q repository.ProductQuery) bson.M {
	filter := bson.M{}
	if q.Keyword != "" {
		filter["name"] = bson.M{"$regex": q.Keyword, "$options": "i"}
	}
	for key, raw := range q.Filters {
		field, op, ranged := splitRangeKey(key)
		if ranged {
			cond, ok := filter[field].(bson.M)
			if !ok {
				cond = bson.M{}
				filter[field] = cond
			}
			cond["$"+op] = coerce(raw)
			continue
		}
		filter[key] = coerce(raw)
	}
	return filter
}

// splitRangeKey parses "price[gte]" into ("price", "gte", true).
func splitRangeKey(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	op = key[open+1 : len(key)-1]
	switch op {
	case "gt", "gte", "lt", "lte":
		return key[:open], op, true
	}
	return key, "", false
}

// coerce turns numeric-looking values into float64 so comparisons against
// numeric document fields behave; everything else stays a string.
func coerce(raw string) interface{} {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func (r *ProductRepository) List(ctx context.Context, q repository.ProductQuery, skip, limit int64) ([]entity.Product, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cur, err := r.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	products := []entity.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, q repository.ProductQuery) (int64, error) {
	return r.coll.CountDocuments(ctx, buildFilter(q))
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]entity.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	products := []entity.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) UpdateReviews(ctx context.Context, id primitive.ObjectID, reviews []entity.Review, ratings float64, numberOfReviews int) error {
	if reviews == nil {
		reviews = []entity.Review{}
	}
	update := bson.M{"$set": bson.M{
		"reviews":         reviews,
		"ratings":         ratings,
		"numberOfReviews": numberOfReviews,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

// DecrementStock subtracts qty from stock in a single pipeline update so
// the floor at zero is applied server side.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "stock", Value: bson.D{
			{Key: "$max", Value: bson.A{0, bson.D{{Key: "$subtract", Value: bson.A{"$stock", qty}}}}},
		}}}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
