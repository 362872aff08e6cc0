package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is an opaque reference into the external image storage: the
// public id locates the stored object, the URL is what clients render.
type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// Review is embedded in its product document and lives and dies with it.
// Name is the author's display name denormalized at submission time.
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User    primitive.ObjectID `bson:"user" json:"user"`
	Name    string             `bson:"name" json:"name"`
	Rating  int                `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}

// Product is the aggregate root for the catalog. Ratings and
// NumberOfReviews are derived from Reviews and must only change through
// UpsertReview / RemoveReview so they can never drift from the list.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	Category        string             `bson:"category" json:"category"`
	Stock           int                `bson:"stock" json:"stock"`
	Images          []Image            `bson:"image,omitempty" json:"image"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	Ratings         float64            `bson:"ratings" json:"ratings"`
	NumberOfReviews int                `bson:"numberOfReviews" json:"numberOfReviews"`
	User            primitive.ObjectID `bson:"user,omitempty" json:"user"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpsertReview replaces the rating and comment of an existing review by
// the same user in place, keeping its id and position, or appends a new
// review. Aggregates are recomputed before returning.
func (p *Product) UpsertReview(r Review) {
	replaced := false
	for i := range p.Reviews {
		if p.Reviews[i].User == r.User {
			p.Reviews[i].Rating = r.Rating
			p.Reviews[i].Comment = r.Comment
			replaced = true
			break
		}
	}
	if !replaced {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		p.Reviews = append(p.Reviews, r)
	}
	p.recomputeRatings()
}

// RemoveReview filters the review with the given id out of the embedded
// list. Removing an id that is not present is a no-op; aggregates are
// recomputed either way.
func (p *Product) RemoveReview(reviewID primitive.ObjectID) {
	kept := p.Reviews[:0]
	for _, r := range p.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	p.Reviews = kept
	p.recomputeRatings()
}

func (p *Product) recomputeRatings() {
	p.NumberOfReviews = len(p.Reviews)
	if len(p.Reviews) == 0 {
		p.Ratings = 0
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = float64(sum) / float64(len(p.Reviews))
}
