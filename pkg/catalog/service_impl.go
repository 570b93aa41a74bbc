package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thegoodstr/storefront/pkg/catalog/keygen"
)

// Object key prefixes. Cover images and purchasable assets share one
// bucket and are distinguished by prefix.
const (
	imageKeyPrefix = "img_"
	assetKeyPrefix = "asset_"
)

// DefaultLinkTTL bounds pre-authorized upload and download links unless
// configured otherwise.
const DefaultLinkTTL = time.Hour

// service implements the Service interface
type service struct {
	repository Repository
	store      BlobStore
	keys       keygen.Generator
	events     EventSink
	linkTTL    time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the catalog repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object store gateway for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithKeyGenerator sets the identity generator for product ids and
// object keys
func WithKeyGenerator(g keygen.Generator) Option {
	return func(s *service) {
		s.keys = g
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithLinkTTL sets the expiry window for pre-authorized links
func WithLinkTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.linkTTL = ttl
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keys:    keygen.New(),
		events:  NewNoopEventSink(),
		linkTTL: DefaultLinkTTL,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.store == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Asset keys come from a prior direct upload; confirm the bytes are
	// there before writing anything the record would reference.
	for _, key := range req.AssetKeys {
		ok, err := s.store.Exists(ctx, key)
		if err != nil {
			return nil, &StorageError{Key: key, Op: "exists", Err: err}
		}
		if !ok {
			return nil, fmt.Errorf("asset key %q: %w", key, ErrAssetNotFound)
		}
	}

	imageKey := s.keys.NewKey(imageKeyPrefix)
	if err := s.store.Upload(ctx, imageKey, bytes.NewReader(req.CoverImage)); err != nil {
		return nil, &StorageError{Key: imageKey, Op: "upload", Err: err}
	}

	product := &Product{
		ID:          s.keys.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageKey:    imageKey,
		AssetKeys:   req.AssetKeys,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repository.CreateProduct(ctx, product); err != nil {
		// The uploaded image is now an orphan. Orphaned objects are
		// inert and collected out of band; no compensating delete here.
		return nil, &RepositoryError{Op: "create product", Err: err}
	}

	_ = s.events.ProductCreated(ctx, product)

	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	product, err := s.repository.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, &RepositoryError{Op: "get product", Err: err}
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	products, err := s.repository.ListProducts(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "list products", Err: err}
	}
	return products, nil
}

func (s *service) CoverImageURL(ctx context.Context, product *Product) (string, error) {
	url, err := s.store.GetDownloadURL(ctx, product.ImageKey, "", s.linkTTL)
	if err != nil {
		return "", &StorageError{Key: product.ImageKey, Op: "presign download", Err: err}
	}
	return url, nil
}

func (s *service) CreateAssetUploadLink(ctx context.Context) (*UploadLink, error) {
	key := s.keys.NewKey(assetKeyPrefix)
	url, err := s.store.GetUploadURL(ctx, key, s.linkTTL)
	if err != nil {
		return nil, &StorageError{Key: key, Op: "presign upload", Err: err}
	}
	return &UploadLink{URL: url, Key: key}, nil
}

func (s *service) GetAssetDownloadLink(ctx context.Context, productID string) (string, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	if len(product.AssetKeys) == 0 {
		return "", ErrAssetNotFound
	}

	return s.assetDownloadURL(ctx, product, product.AssetKeys[0])
}

func (s *service) GetProductDownloads(ctx context.Context, productID string) ([]DownloadLink, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if len(product.AssetKeys) == 0 {
		return nil, ErrAssetNotFound
	}

	links := make([]DownloadLink, 0, len(product.AssetKeys))
	for _, key := range product.AssetKeys {
		url, err := s.assetDownloadURL(ctx, product, key)
		if err != nil {
			return nil, err
		}
		links = append(links, DownloadLink{URL: url})
	}

	return links, nil
}

func (s *service) assetDownloadURL(ctx context.Context, product *Product, key string) (string, error) {
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", &StorageError{Key: key, Op: "exists", Err: err}
	}
	if !ok {
		return "", ErrAssetNotFound
	}

	url, err := s.store.GetDownloadURL(ctx, key, product.Name, s.linkTTL)
	if err != nil {
		return "", &StorageError{Key: key, Op: "presign download", Err: err}
	}
	return url, nil
}

func (s *service) Subscribe(ctx context.Context, req SubscribeRequest) (*Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub := &Subscription{
		ID:        uuid.New(),
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.CreateSubscription(ctx, sub); err != nil {
		return nil, &RepositoryError{Op: "create subscription", Err: err}
	}

	_ = s.events.SubscriptionCreated(ctx, sub)

	return sub, nil
}
