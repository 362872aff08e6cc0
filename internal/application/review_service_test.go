package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/novamart/storefront-api/internal/domain/apperr"
	"github.com/novamart/storefront-api/internal/domain/entity"
)

func reviewFixture(t *testing.T) (*ReviewService, *mockProductRepo, primitive.ObjectID) {
	t.Helper()
	products := newMockProductRepo()
	p := &entity.Product{Name: "Camera", Price: 499, Stock: 3, Reviews: []entity.Review{}}
	require.NoError(t, products.Create(context.Background(), p))
	return NewReviewService(products), products, p.ID
}

func TestReviewService_Submit_RatingBounds(t *testing.T) {
	svc, _, productID := reviewFixture(t)
	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "Sam", rating, "")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "rating %d should be rejected", rating)
	}
}

func TestReviewService_Submit_UnknownProduct(t *testing.T) {
	svc, _, _ := reviewFixture(t)
	_, err := svc.Submit(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "Sam", 4, "nice")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestReviewService_Submit_AppendsAndAggregates(t *testing.T) {
	svc, products, productID := reviewFixture(t)

	reviewed, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "Sam", 4, "solid")
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.NumberOfReviews)
	assert.Equal(t, 4.0, reviewed.Ratings)

	// aggregates persisted alongside the list
	stored, _ := products.GetByID(context.Background(), productID)
	assert.Equal(t, 1, stored.NumberOfReviews)
	assert.Equal(t, 4.0, stored.Ratings)
	assert.False(t, stored.Reviews[0].ID.IsZero())
}

func TestReviewService_Submit_ReplacesOwnReviewInPlace(t *testing.T) {
	svc, _, productID := reviewFixture(t)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	_, err := svc.Submit(context.Background(), productID, alice, "Alice", 5, "love it")
	require.NoError(t, err)
	withBob, err := svc.Submit(context.Background(), productID, bob, "Bob", 3, "fine")
	require.NoError(t, err)
	firstID := withBob.Reviews[0].ID

	updated, err := svc.Submit(context.Background(), productID, alice, "Alice", 1, "broke after a week")
	require.NoError(t, err)

	require.Equal(t, 2, updated.NumberOfReviews)
	// same id, same position, new content
	assert.Equal(t, firstID, updated.Reviews[0].ID)
	assert.Equal(t, alice, updated.Reviews[0].User)
	assert.Equal(t, 1, updated.Reviews[0].Rating)
	assert.Equal(t, "broke after a week", updated.Reviews[0].Comment)
	assert.Equal(t, 2.0, updated.Ratings)
}

func TestReviewService_Submit_AveragesAcrossUsers(t *testing.T) {
	svc, _, productID := reviewFixture(t)

	_, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "A", 4, "")
	require.NoError(t, err)
	product, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "B", 5, "")
	require.NoError(t, err)

	assert.Equal(t, 2, product.NumberOfReviews)
	assert.InDelta(t, 4.5, product.Ratings, 1e-9)
}

func TestReviewService_Delete_Recomputes(t *testing.T) {
	svc, products, productID := reviewFixture(t)

	_, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "A", 2, "")
	require.NoError(t, err)
	product, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "B", 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), productID, product.Reviews[0].ID))

	stored, _ := products.GetByID(context.Background(), productID)
	assert.Equal(t, 1, stored.NumberOfReviews)
	assert.Equal(t, 5.0, stored.Ratings)
}

func TestReviewService_Delete_UnknownReviewIsNoop(t *testing.T) {
	svc, products, productID := reviewFixture(t)

	_, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "A", 3, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), productID, primitive.NewObjectID()))

	stored, _ := products.GetByID(context.Background(), productID)
	assert.Equal(t, 1, stored.NumberOfReviews)
	assert.Equal(t, 3.0, stored.Ratings)
}

func TestReviewService_Delete_LastReviewZeroesAggregates(t *testing.T) {
	svc, products, productID := reviewFixture(t)

	product, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "A", 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), productID, product.Reviews[0].ID))

	stored, _ := products.GetByID(context.Background(), productID)
	assert.Equal(t, 0, stored.NumberOfReviews)
	assert.Equal(t, 0.0, stored.Ratings)
	assert.Empty(t, stored.Reviews)
}

func TestReviewService_List(t *testing.T) {
	svc, _, productID := reviewFixture(t)

	_, err := svc.Submit(context.Background(), productID, primitive.NewObjectID(), "A", 4, "good")
	require.NoError(t, err)

	reviews, err := svc.List(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "good", reviews[0].Comment)

	_, err = svc.List(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
