package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/entity"
)

// ProductQuery carries the raw listing criteria. Keyword matches the
// product name case-insensitively; Filters holds every non-reserved
// query key verbatim, either plain equality ("category") or a range in
// bracket notation ("price[gte]").
type ProductQuery struct {
	Keyword string
	Filters map[string]string
}

// ProductRepository defines persistence for the product aggregate.
// UpdateReviews and DecrementStock are deliberately narrow: the review
// list with its derived fields, and the stock counter, are written by
// single partial updates so unrelated fields are never touched.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	List(ctx context.Context, q ProductQuery, skip, limit int64) ([]entity.Product, error)
	Count(ctx context.Context, q ProductQuery) (int64, error)
	ListAll(ctx context.Context) ([]entity.Product, error)

	// UpdateReviews persists the embedded review list together with both
	// derived aggregate fields in one update.
	UpdateReviews(ctx context.Context, id primitive.ObjectID, reviews []entity.Review, ratings float64, numberOfReviews int) error

	// DecrementStock subtracts qty from the product's stock, floored at
	// zero, as a single document update.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}
