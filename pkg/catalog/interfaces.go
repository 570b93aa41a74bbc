package catalog

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for the object store holding cover
// images and downloadable assets. Keys are write-once: uploads never
// overwrite an existing product or asset key.
type BlobStore interface {
	// Upload durably writes the reader's bytes under objectKey
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Exists reports whether objectKey resolves to stored bytes
	Exists(ctx context.Context, objectKey string) (bool, error)

	// GetUploadURL returns a pre-authorized URL allowing a direct upload
	// to objectKey for the given expiry window
	GetUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// GetDownloadURL returns a pre-authorized URL allowing a direct
	// download of objectKey for the given expiry window. A non-empty
	// downloadFilename sets the attachment filename.
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string, expiry time.Duration) (string, error)

	// Download reads the bytes stored under objectKey
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

// Repository defines the interface for catalog persistence. The current
// scope is insert-only: products are never updated or deleted.
type Repository interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)

	CreateSubscription(ctx context.Context, sub *Subscription) error
}

// EventSink defines the interface for event handling
type EventSink interface {
	// ProductCreated is fired after a product record is persisted
	ProductCreated(ctx context.Context, product *Product) error

	// SubscriptionCreated is fired after a subscription is persisted
	SubscriptionCreated(ctx context.Context, sub *Subscription) error
}
