package application

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
	repo "github.com/novamart/storefront-api/internal/domain/repository"
)

// ReviewService mutates the review list embedded in a product. Every
// mutation goes through the aggregate's upsert/remove entry points and
// lands in the store as a single update carrying both the list and the
// recomputed derived fields.
type ReviewService struct {
	Products repo.ProductRepository
}

func NewReviewService(products repo.ProductRepository) *ReviewService {
	return &ReviewService{Products: products}
}

// Submit creates the caller's review of a product, or replaces the
// rating and comment of their existing one in place.
func (s *ReviewService) Submit(ctx context.Context, productID, userID primitive.ObjectID, name string, rating int, comment string) (*entity.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.UpsertReview(entity.Review{
		User:    userID,
		Name:    name,
		Rating:  rating,
		Comment: comment,
	})
	if err := s.Products.UpdateReviews(ctx, productID, product.Reviews, product.Ratings, product.NumberOfReviews); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a review by id. A reviewID that does not exist on an
// existing product is a no-op, not an error.
func (s *ReviewService) Delete(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	product.RemoveReview(reviewID)
	return s.Products.UpdateReviews(ctx, productID, product.Reviews, product.Ratings, product.NumberOfReviews)
}

// List returns the embedded review list verbatim.
func (s *ReviewService) List(ctx context.Context, productID primitive.ObjectID) ([]entity.Review, error) {
	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return product.Reviews, nil
}
