package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-migrator/internal/logging"
)

// scriptedDownloader returns results[i] for the i-th config and records what it was asked.
type scriptedDownloader struct {
	results    []DownloadResult
	configs    []DownloadConfig
	maxRetries int
}

func (s *scriptedDownloader) DownloadImages(_ context.Context, configs []DownloadConfig, maxRetries int) []DownloadResult {
	s.configs = configs
	s.maxRetries = maxRetries
	out := make([]DownloadResult, len(configs))
	for i := range configs {
		if i < len(s.results) {
			out[i] = s.results[i]
		} else {
			out[i] = DownloadResult{Success: true}
		}
	}
	return out
}

func TestMigrateImages_TalliesAndCorrelatesErrors(t *testing.T) {
	pub := t.TempDir()
	dl := &scriptedDownloader{results: []DownloadResult{
		{Success: true},
		{Error: "HTTP 404: Not Found"},
		{Success: true},
		{Error: "Request timeout"},
	}}
	m := NewMigration(pub, dl, logging.Discard())

	result, err := m.MigrateImages(context.Background(), []ProjectImageConfig{
		{ProjectID: "1", Images: ProjectImages{Main: "https://a.io/1.png", Gallery: []string{"https://a.io/1g.png"}}},
		{ProjectID: "2", Images: ProjectImages{Main: "https://a.io/2.png"}},
	}, ProfileImageConfig{Avatar: "https://a.io/me.png"})
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxRetries, dl.maxRetries)
	require.Len(t, dl.configs, 4)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.DownloadedImages)
	assert.Equal(t, 2, result.FailedImages)
	assert.Equal(t, []string{
		"https://a.io/1g.png: HTTP 404: Not Found",
		"https://a.io/me.png: Request timeout",
	}, result.Errors)

	want := ImagePaths{
		Projects: map[string]string{
			"1": "/images/projects/1/main.jpg",
			"2": "/images/projects/2/main.jpg",
		},
		Profile: map[string]string{"avatar": "/images/profile/avatar.jpg"},
	}
	if diff := cmp.Diff(want, result.ImagePaths); diff != "" {
		t.Errorf("ImagePaths mismatch (-want +got):\n%s", diff)
	}
}

func TestMigrateImages_NothingToDownload(t *testing.T) {
	dl := &scriptedDownloader{}
	m := NewMigration(t.TempDir(), dl, nil)

	result, err := m.MigrateImages(context.Background(), nil, ProfileImageConfig{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.DownloadedImages)
	assert.Empty(t, result.ImagePaths.Projects)
	assert.Nil(t, dl.configs, "downloader is not called")
}

func TestMigrateImages_WithRealDownloader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	pub := t.TempDir()
	m := NewMigration(pub, newTestDownloader(nil), nil)

	result, err := m.MigrateImages(context.Background(), []ProjectImageConfig{
		{ProjectID: "4", Images: ProjectImages{Main: server.URL + "/shot.png"}},
	}, ProfileImageConfig{Hero: server.URL + "/hero.webp"})
	require.NoError(t, err)
	require.True(t, result.Success, result.Errors)

	assert.FileExists(t, filepath.Join(pub, "images", "projects", "4", "main.jpg"))
	assert.FileExists(t, filepath.Join(pub, "images", "profile", "hero.jpg"))
	assert.True(t, m.ValidateMigration(result.ImagePaths))
}

func TestValidateMigration_ReportsMissingFiles(t *testing.T) {
	pub := t.TempDir()
	logger := logging.Discard()
	m := NewMigration(pub, &scriptedDownloader{}, logger)

	present := filepath.Join(pub, "images", "profile", "avatar.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(present), 0755))
	require.NoError(t, os.WriteFile(present, []byte("x"), 0644))

	ok := m.ValidateMigration(ImagePaths{
		Projects: map[string]string{"9": "/images/projects/9/main.jpg"},
		Profile:  map[string]string{"avatar": "/images/profile/avatar.jpg"},
	})

	assert.False(t, ok)
	errs := logger.EntriesByLevel(logging.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Missing project image")
}

func TestCleanupOldImages(t *testing.T) {
	pub := t.TempDir()
	m := NewMigration(pub, &scriptedDownloader{}, nil)

	files, err := m.CleanupOldImages()
	require.NoError(t, err)
	assert.Empty(t, files)

	oldDir := filepath.Join(pub, "projects")
	require.NoError(t, os.MkdirAll(oldDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(oldDir, "a.png"), []byte("x"), 0644))

	files, err = m.CleanupOldImages()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(oldDir, "a.png")}, files)
	assert.FileExists(t, filepath.Join(oldDir, "a.png"), "dry run leaves files in place")
}

func TestMigrateImages_UsesConfiguredRetries(t *testing.T) {
	dl := &scriptedDownloader{}
	m := NewMigration(t.TempDir(), dl, logging.Discard())
	m.SetMaxRetries(0)
	m.SetMaxRetries(5)

	_, err := m.MigrateImages(context.Background(), nil, ProfileImageConfig{Avatar: "https://a.io/me.png"})
	require.NoError(t, err)
	assert.Equal(t, 5, dl.maxRetries)
}
