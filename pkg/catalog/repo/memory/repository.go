// Package memory provides an in-memory implementation of the
// catalog.Repository interface.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/thegoodstr/storefront/pkg/catalog"
)

// Repository implements catalog.Repository using in-memory storage.
// Listing preserves insertion order.
type Repository struct {
	mu            sync.RWMutex
	products      map[string]*catalog.Product
	order         []string
	subscriptions map[uuid.UUID]*catalog.Subscription
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		products:      make(map[string]*catalog.Product),
		subscriptions: make(map[uuid.UUID]*catalog.Subscription),
	}
}

func (r *Repository) CreateProduct(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product %s already exists", product.ID)
	}

	// Store a copy to avoid external modifications
	productCopy := *product
	r.products[product.ID] = &productCopy
	r.order = append(r.order, product.ID)

	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, catalog.ErrProductNotFound
	}

	productCopy := *product
	return &productCopy, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Product, 0, len(r.order))
	for _, id := range r.order {
		productCopy := *r.products[id]
		result = append(result, &productCopy)
	}

	return result, nil
}

func (r *Repository) CreateSubscription(ctx context.Context, sub *catalog.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subCopy := *sub
	r.subscriptions[sub.ID] = &subCopy

	return nil
}
