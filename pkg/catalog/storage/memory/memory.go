// Package memory provides an in-memory implementation of the
// catalog.BlobStore interface for tests and local development. Its
// pre-authorized links carry an explicit expiry timestamp so link-expiry
// behavior can be exercised deterministically with an injected clock.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thegoodstr/storefront/pkg/catalog"
)

// Backend is an in-memory implementation of the catalog.BlobStore
// interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
	now     func() time.Time
}

// Option configures the in-memory backend
type Option func(*Backend)

// WithClock overrides the time source used for link expiry checks
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// New creates a new in-memory storage backend
func New(opts ...Option) *Backend {
	b := &Backend{
		objects: make(map[string][]byte),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	return nil
}

// Exists reports whether objectKey resolves to stored bytes
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[objectKey]
	return exists, nil
}

// GetUploadURL returns a fake pre-authorized upload URL carrying its
// expiry timestamp
func (b *Backend) GetUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return b.link("upload", objectKey, expiry), nil
}

// GetDownloadURL returns a fake pre-authorized download URL carrying its
// expiry timestamp
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string, expiry time.Duration) (string, error) {
	return b.link("download", objectKey, expiry), nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, catalog.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Backend) link(op, objectKey string, expiry time.Duration) string {
	if expiry <= 0 {
		expiry = catalog.DefaultLinkTTL
	}
	expires := b.now().Add(expiry).Unix()
	return fmt.Sprintf("memory://%s/%s?expires=%d", op, url.PathEscape(objectKey), expires)
}

// PutViaLink emulates a direct client upload through a pre-authorized
// link. It rejects expired links with catalog.ErrLinkExpired.
func (b *Backend) PutViaLink(link string, data []byte) error {
	key, err := b.checkLink(link, "upload")
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	return nil
}

// GetViaLink emulates a direct client download through a pre-authorized
// link. It rejects expired links with catalog.ErrLinkExpired.
func (b *Backend) GetViaLink(link string) ([]byte, error) {
	key, err := b.checkLink(link, "download")
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, catalog.ErrObjectNotFound
	}
	return data, nil
}

func (b *Backend) checkLink(link, wantOp string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("malformed link: %w", err)
	}
	if u.Scheme != "memory" || u.Host != wantOp {
		return "", fmt.Errorf("link does not authorize %s", wantOp)
	}

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed link expiry: %w", err)
	}
	if b.now().Unix() > expires {
		return "", catalog.ErrLinkExpired
	}

	key, err := url.PathUnescape(strings.TrimPrefix(u.Path, "/"))
	if err != nil {
		return "", fmt.Errorf("malformed link key: %w", err)
	}
	return key, nil
}
