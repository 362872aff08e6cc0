package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/novamart/storefront-api/config"
	"github.com/novamart/storefront-api/internal/domain/entity"
	"github.com/novamart/storefront-api/internal/infrastructure/mongodb"
	"github.com/novamart/storefront-api/pkg/helpers"
)

// Seeds a local database with an admin account and a few products so
// the API is usable right after `docker compose up`.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	seedAdmin(ctx, db)
	seedProducts(ctx, db)
}

func seedAdmin(ctx context.Context, db *mongo.Database) {
	hash, err := helpers.HashPassword("admin12345")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	now := time.Now()
	admin := entity.User{
		ID:        primitive.NewObjectID(),
		Name:      "Admin",
		Email:     "admin@novamart.dev",
		Password:  hash,
		Role:      entity.RoleAdmin,
		CreatedAt: now,
	}

	res, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"email": admin.Email},
		bson.M{"$setOnInsert": admin},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if res.UpsertedCount > 0 {
		log.Printf("admin user created: %s", admin.Email)
	} else {
		log.Printf("admin user already present: %s", admin.Email)
	}
}

func seedProducts(ctx context.Context, db *mongo.Database) {
	products := db.Collection("products")
	count, err := products.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatalf("count products: %v", err)
	}
	if count > 0 {
		log.Printf("products already seeded (%d present)", count)
		return
	}

	now := time.Now()
	samples := []any{
		sample("Wireless Headphones", "Over-ear wireless headphones with noise cancelling", 129.99, "Electronics", 25, now),
		sample("Mechanical Keyboard", "Tenkeyless mechanical keyboard with hot-swap switches", 89.50, "Electronics", 40, now),
		sample("Espresso Maker", "Stovetop espresso maker, 6 cups", 34.00, "Kitchen", 15, now),
		sample("Trail Running Shoes", "Lightweight trail shoes with aggressive grip", 110.00, "Sports", 30, now),
		sample("Desk Lamp", "Adjustable LED desk lamp with USB charging port", 24.95, "Home", 60, now),
	}
	if _, err := products.InsertMany(ctx, samples); err != nil {
		log.Fatalf("seed products: %v", err)
	}
	log.Printf("seeded %d products", len(samples))
}

func sample(name, desc string, price float64, category string, stock int, now time.Time) entity.Product {
	return entity.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: desc,
		Price:       price,
		Category:    category,
		Stock:       stock,
		Reviews:     []entity.Review{},
		CreatedAt:   now,
	}
}
