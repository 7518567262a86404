package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/fetcher"
	"ccscraper/pkg/logger"
	"ccscraper/pkg/models"
	"ccscraper/pkg/storage"
)

// mockFetcher serves canned assets by path and counts requests
type mockFetcher struct {
	assets map[string]*fetcher.Asset
	errs   map[string]error
	calls  []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		assets: make(map[string]*fetcher.Asset),
		errs:   make(map[string]error),
	}
}

func (m *mockFetcher) FetchAsset(ctx context.Context, path string) (*fetcher.Asset, error) {
	m.calls = append(m.calls, path)
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if asset, ok := m.assets[path]; ok {
		return asset, nil
	}
	return &fetcher.Asset{Status: 404}, nil
}

// failingStorage never has anything and cannot write
type failingStorage struct{}

func (failingStorage) Exists(string) bool { return false }

func (failingStorage) Save(path string, _ []byte) error {
	return errs.Wrap(errs.ErrorTypeFilesystemWrite, path, "failed to write photo data", errors.New("no space left on device"))
}

func setup(t *testing.T) (*mockFetcher, *storage.Manager, string) {
	t.Helper()
	manager, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)
	dir, err := manager.EnsureDir("alice")
	require.NoError(t, err)
	return newMockFetcher(), manager, dir
}

func TestDownloadPhotoSaves(t *testing.T) {
	client, manager, dir := setup(t)
	payload := []byte(strings.Repeat("x", 21))
	client.assets["/p0?AccessKeyId=k"] = &fetcher.Asset{Status: 200, Body: payload}

	d := New(client, manager, 20, logger.NewNopLogger())
	outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p0?AccessKeyId=k"}, dir, "0.jpg")

	assert.Equal(t, models.OutcomeSaved, outcome.Kind)
	assert.Equal(t, filepath.Join(dir, "0.jpg"), outcome.Path)
	assert.Equal(t, 21, outcome.Size)
	assert.NoError(t, outcome.Err)

	written, err := os.ReadFile(outcome.Path)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestDownloadPhotoSkipsExistingWithoutFetching(t *testing.T) {
	client, manager, dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0.jpg"), []byte("already here"), 0644))

	d := New(client, manager, 20, logger.NewNopLogger())
	outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p0?AccessKeyId=k"}, dir, "0.jpg")

	assert.Equal(t, models.OutcomeSkippedExisting, outcome.Kind)
	assert.Empty(t, client.calls)

	content, _ := os.ReadFile(filepath.Join(dir, "0.jpg"))
	assert.Equal(t, "already here", string(content))
}

func TestDownloadPhotoSizeThreshold(t *testing.T) {
	tests := []struct {
		name string
		size int
		want models.OutcomeKind
	}{
		{"empty", 0, models.OutcomeInvalid},
		{"three bytes", 3, models.OutcomeInvalid},
		{"at threshold", 20, models.OutcomeInvalid},
		{"just above threshold", 21, models.OutcomeSaved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, manager, dir := setup(t)
			client.assets["/p"] = &fetcher.Asset{Status: 200, Body: make([]byte, tt.size)}

			d := New(client, manager, 20, logger.NewNopLogger())
			outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p"}, dir, "0.jpg")

			assert.Equal(t, tt.want, outcome.Kind)
			if tt.want == models.OutcomeInvalid {
				assert.True(t, errs.IsType(outcome.Err, errs.ErrorTypeValidation))
				assert.NoFileExists(t, filepath.Join(dir, "0.jpg"))
			} else {
				assert.FileExists(t, filepath.Join(dir, "0.jpg"))
			}
		})
	}
}

func TestDownloadPhotoInvalidIsRetriedOnNextRun(t *testing.T) {
	client, manager, dir := setup(t)
	client.assets["/p"] = &fetcher.Asset{Status: 200, Body: []byte("abc")}

	d := New(client, manager, 20, logger.NewNopLogger())
	first := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p"}, dir, "0.jpg")
	second := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p"}, dir, "0.jpg")

	assert.Equal(t, models.OutcomeInvalid, first.Kind)
	assert.Equal(t, models.OutcomeInvalid, second.Kind, "no file exists, so nothing is skipped")
	assert.Len(t, client.calls, 2)
}

func TestDownloadPhotoServerError(t *testing.T) {
	client, manager, dir := setup(t)
	client.assets["/p"] = &fetcher.Asset{Status: 500}

	d := New(client, manager, 20, logger.NewNopLogger())
	outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p"}, dir, "0.jpg")

	assert.Equal(t, models.OutcomeInvalid, outcome.Kind)
	assert.Equal(t, 500, errs.CodeOf(outcome.Err))
	assert.Contains(t, outcome.Err.Error(), "server error")
	assert.Len(t, client.calls, 1, "server errors are not retried")
	assert.NoFileExists(t, filepath.Join(dir, "0.jpg"))
}

func TestDownloadPhotoNotFound(t *testing.T) {
	client, manager, dir := setup(t)

	d := New(client, manager, 20, logger.NewNopLogger())
	outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/gone"}, dir, "0.jpg")

	assert.Equal(t, models.OutcomeInvalid, outcome.Kind)
	assert.Equal(t, 404, errs.CodeOf(outcome.Err))
}

func TestDownloadPhotoNetworkFailure(t *testing.T) {
	client, manager, dir := setup(t)
	client.errs["/p"] = errs.New(errs.ErrorTypeNetwork, "/p", "request failed")

	d := New(client, manager, 20, logger.NewNopLogger())
	outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p"}, dir, "0.jpg")

	assert.Equal(t, models.OutcomeFailed, outcome.Kind)
	assert.True(t, errs.IsType(outcome.Err, errs.ErrorTypeNetwork))
}

func TestDownloadPhotoWriteFailure(t *testing.T) {
	client := newMockFetcher()
	client.assets["/p"] = &fetcher.Asset{Status: 200, Body: make([]byte, 100)}

	d := New(client, failingStorage{}, 20, logger.NewNopLogger())
	outcome := d.DownloadPhoto(context.Background(), models.PhotoRef{Path: "/p"}, "/out/alice", "0.jpg")

	assert.Equal(t, models.OutcomeFailed, outcome.Kind)
	assert.Equal(t, filepath.Join("/out/alice", "0.jpg"), outcome.Path)
	assert.True(t, errs.IsType(outcome.Err, errs.ErrorTypeFilesystemWrite))
}
