package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-migrator/internal/images"
	"github.com/jonathan/portfolio-migrator/internal/types"
)

func TestDownloadImagesCommand_MissingContentFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "download-images").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"content\" not set")
}

func TestDownloadImagesCommand_DownloadsPlannedImages(t *testing.T) {
	binaryPath := getBinaryPath(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer server.Close()

	id := 1
	content := sampleContent()
	content.Projects[0].Image = server.URL + "/hypd.png"
	content.Images = []types.ExtractedImage{
		{URL: server.URL + "/hypd.png", LocalPath: "/projects/image-1.png", Type: types.ImageProject, ProjectID: &id},
		{URL: server.URL + "/missing.png", LocalPath: "/images/profile/image-2.png", Type: types.ImageProfile},
	}
	dump := writeDump(t, content)
	publicDir := filepath.Join(t.TempDir(), "public")
	pathsOut := filepath.Join(t.TempDir(), "paths.json")

	output, err := exec.Command(binaryPath, "download-images",
		"--content", dump,
		"--public-dir", publicDir,
		"--retries", "1",
		"--paths-out", pathsOut,
	).CombinedOutput()
	require.NoError(t, err, string(output))

	data, err := os.ReadFile(filepath.Join(publicDir, "images", "projects", "1", "main.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
	assert.Contains(t, string(output), "HTTP 404: Not Found")

	var paths images.ImagePaths
	raw, err := os.ReadFile(pathsOut)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &paths))
	assert.Equal(t, "/images/projects/1/main.jpg", paths.Projects["1"])
	assert.Equal(t, "/images/profile/avatar.jpg", paths.Profile["avatar"])
}

func TestDownloadImagesCommand_UsesConfigFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	content := sampleContent()
	content.Projects[0].Image = server.URL + "/hypd.png"
	content.Images = nil
	dump := writeDump(t, content)

	publicDir := filepath.Join(t.TempDir(), "site-public")
	cfgPath := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		public_dir: "`+filepath.ToSlash(publicDir)+`",
		max_image_retries: 2,
	}`), 0644))

	output, err := exec.Command(binaryPath, "download-images",
		"--config", cfgPath,
		"--content", dump,
	).CombinedOutput()
	require.NoError(t, err, string(output))

	assert.DirExists(t, filepath.Join(publicDir, "images", "projects"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests), "max_image_retries bounds the attempts")
}

func TestDownloadImagesCommand_FlagsOverrideConfigFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	content := sampleContent()
	content.Projects[0].Image = server.URL + "/hypd.png"
	content.Images = nil
	dump := writeDump(t, content)

	cfgPath := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{public_dir: "ignored", max_image_retries: 3}`), 0644))
	publicDir := filepath.Join(t.TempDir(), "public")

	output, err := exec.Command(binaryPath, "download-images",
		"--config", cfgPath,
		"--content", dump,
		"--public-dir", publicDir,
		"--retries", "1",
	).CombinedOutput()
	require.NoError(t, err, string(output))

	assert.DirExists(t, filepath.Join(publicDir, "images", "projects"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestDownloadImagesCommand_InvalidConfig(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dump := writeDump(t, sampleContent())
	cfgPath := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{max_image_retries: 11}`), 0644))

	output, err := exec.Command(binaryPath, "download-images", "--config", cfgPath, "--content", dump).CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "MaxImageRetries")
}
