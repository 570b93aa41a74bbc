package catalog

import "context"

// Service orchestrates the identity generator, the object store and the
// catalog repository. Every operation is a single linear sequence of
// blocking calls: validate, then mutate storage, then mutate the
// catalog, then respond. No state is retained between calls.
type Service interface {
	// CreateProduct validates the request, writes the cover image to
	// storage under a fresh image key, and persists the full product
	// record. The record is never inserted unless the image write
	// succeeded and every supplied asset key resolves in storage.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)

	// GetProduct returns the product for id, or ErrProductNotFound
	GetProduct(ctx context.Context, id string) (*Product, error)

	// ListProducts returns every product record
	ListProducts(ctx context.Context) ([]*Product, error)

	// CoverImageURL returns a time-boxed download URL for the product's
	// cover image
	CoverImageURL(ctx context.Context, product *Product) (string, error)

	// CreateAssetUploadLink mints a fresh asset key and a time-boxed
	// upload URL for it. No metadata is written; binding the key to a
	// product happens when the product is created with that key.
	CreateAssetUploadLink(ctx context.Context) (*UploadLink, error)

	// GetAssetDownloadLink returns a time-boxed download URL for the
	// product's first bound asset. Fails with ErrProductNotFound if the
	// product is absent and ErrAssetNotFound if it has no resolvable
	// asset.
	GetAssetDownloadLink(ctx context.Context, productID string) (string, error)

	// GetProductDownloads returns one download link per bound asset
	GetProductDownloads(ctx context.Context, productID string) ([]DownloadLink, error)

	// Subscribe records an email address
	Subscribe(ctx context.Context, req SubscribeRequest) (*Subscription, error)
}
