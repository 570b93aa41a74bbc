// Package mongo provides a MongoDB implementation of the
// catalog.Repository interface. Products live in the "products"
// collection, subscriptions in "subscriptions"; the product id is the
// document _id, so uniqueness is enforced by the collection itself.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thegoodstr/storefront/pkg/catalog"
)

// Repository implements catalog.Repository using MongoDB
type Repository struct {
	products      *mongo.Collection
	subscriptions *mongo.Collection
}

// New creates a new MongoDB repository on the given database
func New(db *mongo.Database) *Repository {
	return &Repository{
		products:      db.Collection("products"),
		subscriptions: db.Collection("subscriptions"),
	}
}

func (r *Repository) CreateProduct(ctx context.Context, product *catalog.Product) error {
	_, err := r.products.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %s already exists", product.ID)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	cursor, err := r.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*catalog.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *Repository) CreateSubscription(ctx context.Context, sub *catalog.Subscription) error {
	_, err := r.subscriptions.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}
