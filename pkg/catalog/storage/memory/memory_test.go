package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegoodstr/storefront/pkg/catalog"
	"github.com/thegoodstr/storefront/pkg/catalog/storage/memory"
)

func TestUploadAndDownload(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	err := backend.Upload(ctx, "img_abc123", strings.NewReader("image bytes"))
	require.NoError(t, err)

	exists, err := backend.Exists(ctx, "img_abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := backend.Download(ctx, "img_abc123")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))
}

func TestDownloadNotFound(t *testing.T) {
	backend := memory.New()

	rc, err := backend.Download(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrObjectNotFound)
	assert.Nil(t, rc)
}

func TestExistsMissing(t *testing.T) {
	backend := memory.New()

	exists, err := backend.Exists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLinkRoundTrip(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	uploadURL, err := backend.GetUploadURL(ctx, "asset_xyz", time.Minute)
	require.NoError(t, err)

	err = backend.PutViaLink(uploadURL, []byte("asset payload"))
	require.NoError(t, err)

	downloadURL, err := backend.GetDownloadURL(ctx, "asset_xyz", "file.zip", time.Minute)
	require.NoError(t, err)

	data, err := backend.GetViaLink(downloadURL)
	require.NoError(t, err)
	assert.Equal(t, "asset payload", string(data))
}

func TestLinkExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	backend := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	uploadURL, err := backend.GetUploadURL(ctx, "asset_xyz", time.Minute)
	require.NoError(t, err)

	downloadURL, err := backend.GetDownloadURL(ctx, "asset_xyz", "", time.Minute)
	require.NoError(t, err)

	// Within the window both links work
	require.NoError(t, backend.PutViaLink(uploadURL, []byte("payload")))
	_, err = backend.GetViaLink(downloadURL)
	require.NoError(t, err)

	// Once the window elapses both links must stop working
	now = now.Add(2 * time.Minute)

	err = backend.PutViaLink(uploadURL, []byte("payload"))
	assert.ErrorIs(t, err, catalog.ErrLinkExpired)

	_, err = backend.GetViaLink(downloadURL)
	assert.ErrorIs(t, err, catalog.ErrLinkExpired)
}

func TestLinkScope(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()

	uploadURL, err := backend.GetUploadURL(ctx, "asset_xyz", time.Minute)
	require.NoError(t, err)

	// An upload link does not authorize downloads
	_, err = backend.GetViaLink(uploadURL)
	assert.Error(t, err)
}
