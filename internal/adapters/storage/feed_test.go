// internal/adapters/storage/feed_test.go
package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/test/helpers"
)

func TestFetcher_FetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"inventory":[]}`), 0o644))

	fetcher, err := storage.NewFetcher(context.Background(), nil, helpers.TestLogger())
	require.NoError(t, err)

	data, err := fetcher.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"inventory":[]}`, string(data))
}

func TestFetcher_FetchMissingFile(t *testing.T) {
	fetcher, err := storage.NewFetcher(context.Background(), nil, helpers.TestLogger())
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "/does/not/exist.json")
	assert.Error(t, err)
}

func TestFetcher_S3WithoutConfiguration(t *testing.T) {
	fetcher, err := storage.NewFetcher(context.Background(), nil, helpers.TestLogger())
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "s3://feeds/inventory.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no S3 configuration")
}
