package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProduct_UpsertReview_AssignsID(t *testing.T) {
	p := &Product{}
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 4})

	require.Len(t, p.Reviews, 1)
	assert.False(t, p.Reviews[0].ID.IsZero())
	assert.Equal(t, 1, p.NumberOfReviews)
	assert.Equal(t, 4.0, p.Ratings)
}

func TestProduct_UpsertReview_ReplaceKeepsIDAndPosition(t *testing.T) {
	alice := primitive.NewObjectID()
	p := &Product{}
	p.UpsertReview(Review{User: alice, Rating: 5, Comment: "great"})
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 1})
	originalID := p.Reviews[0].ID

	p.UpsertReview(Review{User: alice, Rating: 2, Comment: "changed my mind"})

	require.Len(t, p.Reviews, 2)
	assert.Equal(t, originalID, p.Reviews[0].ID)
	assert.Equal(t, alice, p.Reviews[0].User)
	assert.Equal(t, 2, p.Reviews[0].Rating)
	assert.Equal(t, "changed my mind", p.Reviews[0].Comment)
	assert.InDelta(t, 1.5, p.Ratings, 1e-9)
}

func TestProduct_RemoveReview(t *testing.T) {
	p := &Product{}
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 2})
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 5})

	p.RemoveReview(p.Reviews[0].ID)
	require.Len(t, p.Reviews, 1)
	assert.Equal(t, 1, p.NumberOfReviews)
	assert.Equal(t, 5.0, p.Ratings)

	// unknown id is a no-op
	p.RemoveReview(primitive.NewObjectID())
	assert.Len(t, p.Reviews, 1)

	p.RemoveReview(p.Reviews[0].ID)
	assert.Empty(t, p.Reviews)
	assert.Zero(t, p.NumberOfReviews)
	assert.Zero(t, p.Ratings)
}
