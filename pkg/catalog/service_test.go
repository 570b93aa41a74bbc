package catalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegoodstr/storefront/pkg/catalog"
	memoryrepo "github.com/thegoodstr/storefront/pkg/catalog/repo/memory"
	memorystorage "github.com/thegoodstr/storefront/pkg/catalog/storage/memory"
)

// trackingStore wraps the in-memory blob store with call counters and a
// switchable upload failure.
type trackingStore struct {
	inner *memorystorage.Backend

	mu               sync.Mutex
	uploadCalls      int
	existsCalls      int
	uploadURLCalls   int
	downloadURLCalls int
	failUpload       bool
}

func newTrackingStore() *trackingStore {
	return &trackingStore{inner: memorystorage.New()}
}

func (s *trackingStore) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	s.mu.Lock()
	s.uploadCalls++
	fail := s.failUpload
	s.mu.Unlock()
	if fail {
		return errors.New("storage unavailable")
	}
	return s.inner.Upload(ctx, objectKey, reader)
}

func (s *trackingStore) Exists(ctx context.Context, objectKey string) (bool, error) {
	s.mu.Lock()
	s.existsCalls++
	s.mu.Unlock()
	return s.inner.Exists(ctx, objectKey)
}

func (s *trackingStore) GetUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	s.mu.Lock()
	s.uploadURLCalls++
	s.mu.Unlock()
	return s.inner.GetUploadURL(ctx, objectKey, expiry)
}

func (s *trackingStore) GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string, expiry time.Duration) (string, error) {
	s.mu.Lock()
	s.downloadURLCalls++
	s.mu.Unlock()
	return s.inner.GetDownloadURL(ctx, objectKey, downloadFilename, expiry)
}

func (s *trackingStore) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return s.inner.Download(ctx, objectKey)
}

func (s *trackingStore) writeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadCalls + s.existsCalls + s.uploadURLCalls + s.downloadURLCalls
}

// trackingRepo wraps the in-memory repository with call counters and a
// switchable insert failure.
type trackingRepo struct {
	inner *memoryrepo.Repository

	mu                sync.Mutex
	createCalls       int
	subscriptionCalls int
	failCreate        bool
}

func newTrackingRepo() *trackingRepo {
	return &trackingRepo{inner: memoryrepo.New()}
}

func (r *trackingRepo) CreateProduct(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	r.createCalls++
	fail := r.failCreate
	r.mu.Unlock()
	if fail {
		return errors.New("catalog unavailable")
	}
	return r.inner.CreateProduct(ctx, product)
}

func (r *trackingRepo) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return r.inner.GetProduct(ctx, id)
}

func (r *trackingRepo) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	return r.inner.ListProducts(ctx)
}

func (r *trackingRepo) CreateSubscription(ctx context.Context, sub *catalog.Subscription) error {
	r.mu.Lock()
	r.subscriptionCalls++
	r.mu.Unlock()
	return r.inner.CreateSubscription(ctx, sub)
}

func setupService(t *testing.T) (catalog.Service, *trackingRepo, *trackingStore) {
	t.Helper()

	repo := newTrackingRepo()
	store := newTrackingStore()

	svc, err := catalog.New(
		catalog.WithRepository(repo),
		catalog.WithBlobStore(store),
	)
	require.NoError(t, err)

	return svc, repo, store
}

func validCreateRequest() catalog.CreateProductRequest {
	return catalog.CreateProductRequest{
		Name:        "Mug",
		Description: "Ceramic mug",
		Price:       12.5,
		CoverImage:  []byte("fake png bytes"),
	}
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []catalog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []catalog.Option{},
			expectError: true,
		},
		{
			name: "missing blob store should fail",
			options: []catalog.Option{
				catalog.WithRepository(memoryrepo.New()),
			},
			expectError: true,
		},
		{
			name: "with repository and blob store should succeed",
			options: []catalog.Option{
				catalog.WithRepository(memoryrepo.New()),
				catalog.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := catalog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*catalog.CreateProductRequest)
	}{
		{name: "empty name", mutate: func(r *catalog.CreateProductRequest) { r.Name = "" }},
		{name: "empty description", mutate: func(r *catalog.CreateProductRequest) { r.Description = "" }},
		{name: "empty image", mutate: func(r *catalog.CreateProductRequest) { r.CoverImage = nil }},
		{name: "zero price", mutate: func(r *catalog.CreateProductRequest) { r.Price = 0 }},
		{name: "negative price", mutate: func(r *catalog.CreateProductRequest) { r.Price = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, store := setupService(t)

			req := validCreateRequest()
			tt.mutate(&req)

			product, err := svc.CreateProduct(context.Background(), req)
			assert.ErrorIs(t, err, catalog.ErrInvalidInput)
			assert.Nil(t, product)

			// Fast-fail: no external collaborator was touched
			assert.Zero(t, store.writeCalls())
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestCreateProductStorageFailure(t *testing.T) {
	svc, repo, store := setupService(t)
	store.failUpload = true

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	assert.Nil(t, product)

	var storageErr *catalog.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "upload", storageErr.Op)

	// A failed storage write must never produce a catalog record
	assert.Zero(t, repo.createCalls)
	products, listErr := svc.ListProducts(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, products)
}

func TestCreateProductRepositoryFailure(t *testing.T) {
	svc, repo, store := setupService(t)
	repo.failCreate = true

	product, err := svc.CreateProduct(context.Background(), validCreateRequest())
	assert.Nil(t, product)

	var repoErr *catalog.RepositoryError
	require.ErrorAs(t, err, &repoErr)

	// The uploaded image is left behind as an orphan: the service does
	// not attempt a compensating delete.
	assert.Equal(t, 1, store.uploadCalls)
}

func TestCreateProductRoundTrip(t *testing.T) {
	svc, _, store := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.True(t, strings.HasPrefix(created.ImageKey, "img_"))

	// The image bytes are resolvable under the recorded key
	exists, err := store.Exists(ctx, created.ImageKey)
	require.NoError(t, err)
	assert.True(t, exists)

	retrieved, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", retrieved.Name)
	assert.Equal(t, "Ceramic mug", retrieved.Description)
	assert.Equal(t, 12.5, retrieved.Price)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)
}

func TestListProductsIdempotent(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateProduct(ctx, validCreateRequest())
		require.NoError(t, err)
	}

	first, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	second, err := svc.ListProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetProductNotFound(t *testing.T) {
	svc, _, _ := setupService(t)

	product, err := svc.GetProduct(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, product)
}

func TestCoverImageURL(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, validCreateRequest())
	require.NoError(t, err)

	url, err := svc.CoverImageURL(ctx, created)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

func TestCreateAssetUploadLink(t *testing.T) {
	svc, _, _ := setupService(t)

	link, err := svc.CreateAssetUploadLink(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.Key, "asset_"))
	assert.NotEmpty(t, link.URL)
}

func TestCreateProductWithAssetKeys(t *testing.T) {
	svc, _, store := setupService(t)
	ctx := context.Background()

	// Simulate a prior direct upload
	require.NoError(t, store.Upload(ctx, "asset_deadbeef12", strings.NewReader("zip bytes")))

	req := validCreateRequest()
	req.AssetKeys = []string{"asset_deadbeef12"}

	created, err := svc.CreateProduct(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"asset_deadbeef12"}, created.AssetKeys)
}

func TestCreateProductWithUnknownAssetKey(t *testing.T) {
	svc, repo, _ := setupService(t)

	req := validCreateRequest()
	req.AssetKeys = []string{"asset_unknown"}

	product, err := svc.CreateProduct(context.Background(), req)
	assert.ErrorIs(t, err, catalog.ErrAssetNotFound)
	assert.Nil(t, product)
	assert.Zero(t, repo.createCalls)
}

func TestGetAssetDownloadLink(t *testing.T) {
	svc, _, store := setupService(t)
	ctx := context.Background()

	t.Run("ProductNotFound", func(t *testing.T) {
		_, err := svc.GetAssetDownloadLink(ctx, "nonexistent")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("NoBoundAsset", func(t *testing.T) {
		created, err := svc.CreateProduct(ctx, validCreateRequest())
		require.NoError(t, err)

		_, err = svc.GetAssetDownloadLink(ctx, created.ID)
		assert.ErrorIs(t, err, catalog.ErrAssetNotFound)
	})

	t.Run("BoundAsset", func(t *testing.T) {
		require.NoError(t, store.Upload(ctx, "asset_cafe123456", strings.NewReader("zip bytes")))

		req := validCreateRequest()
		req.AssetKeys = []string{"asset_cafe123456"}
		created, err := svc.CreateProduct(ctx, req)
		require.NoError(t, err)

		url, err := svc.GetAssetDownloadLink(ctx, created.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, url)
	})
}

func TestGetProductDownloads(t *testing.T) {
	svc, _, store := setupService(t)
	ctx := context.Background()

	keys := []string{"asset_aaaa111111", "asset_bbbb222222"}
	for _, key := range keys {
		require.NoError(t, store.Upload(ctx, key, strings.NewReader("zip bytes")))
	}

	req := validCreateRequest()
	req.AssetKeys = keys
	created, err := svc.CreateProduct(ctx, req)
	require.NoError(t, err)

	links, err := svc.GetProductDownloads(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, link := range links {
		assert.NotEmpty(t, link.URL)
	}
}

func TestSubscribe(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		sub, err := svc.Subscribe(ctx, catalog.SubscribeRequest{Email: "buyer@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", sub.Email)
		assert.False(t, sub.CreatedAt.IsZero())
		assert.Equal(t, 1, repo.subscriptionCalls)
	})

	t.Run("EmptyEmail", func(t *testing.T) {
		sub, err := svc.Subscribe(ctx, catalog.SubscribeRequest{})
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
		assert.Nil(t, sub)
	})

	t.Run("MalformedEmail", func(t *testing.T) {
		sub, err := svc.Subscribe(ctx, catalog.SubscribeRequest{Email: "not-an-address"})
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
		assert.Nil(t, sub)
	})
}
