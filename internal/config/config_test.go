package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-migrator/internal/logging"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON5(t *testing.T) {
	content := `{
		// old site
		source_url: "https://portfolio.example.com",
		public_dir: "site/public",
		validate_data: false,
		scraping: {
			retry_attempts: 5,
			known_project_titles: ["HYPD", "Aero",],
		},
	}`
	path := writeConfig(t, t.TempDir(), "config.json5", content)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://portfolio.example.com", cfg.SourceURL)
	assert.Equal(t, "site/public", cfg.PublicDir)
	require.NotNil(t, cfg.ValidateData)
	assert.False(t, cfg.ValidationEnabled())
	assert.Equal(t, 5, cfg.Scraping.RetryAttempts)
	assert.Equal(t, []string{"HYPD", "Aero"}, cfg.Scraping.KnownProjectTitles)
}

func TestLoadConfig_LocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json5", `{source_url: "https://a.example.com", output_dir: "out"}`)
	writeConfig(t, dir, "config.local.json5", `{source_url: "https://b.example.com"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://b.example.com", cfg.SourceURL)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.json5", `{ invalid json `)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON5")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json5")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"defaults", Defaults(), ""},
		{"bad source url", Config{SourceURL: "portfolio"}, "SourceURL"},
		{"bad log level", Config{LogLevel: "loud"}, "LogLevel"},
		{"negative retries", Config{Scraping: Scraping{RetryAttempts: -1}}, "RetryAttempts"},
		{"too many image retries", Config{MaxImageRetries: 11}, "MaxImageRetries"},
		{"empty alt marker", Config{Scraping: Scraping{ProfileAltMarkers: []string{""}}}, "ProfileAltMarkers"},
		{"bad live host", Config{Scraping: Scraping{LiveHosts: []string{"not a host"}}}, "LiveHosts"},
		{"same dirs", Config{DataDir: "public", PublicDir: "./public"}, "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{SourceURL: "https://portfolio.example.com", OutputDir: "custom"}

	merged, err := cfg.MergeWithDefaults(Defaults())
	require.NoError(t, err)

	assert.Equal(t, "custom", merged.OutputDir)
	assert.Equal(t, "public", merged.PublicDir)
	assert.Equal(t, "info", merged.LogLevel)
	assert.True(t, merged.ValidationEnabled())
	assert.Equal(t, 3, merged.MaxImageRetries)
	assert.Equal(t, 10000, merged.Scraping.TimeoutMS)
	assert.Equal(t, "https://portfolio.example.com", merged.SourceURL)
}

func TestMergeWithDefaults_KeepsExplicitFalse(t *testing.T) {
	off := false
	cfg := Config{ValidateData: &off}

	merged, err := cfg.MergeWithDefaults(Defaults())
	require.NoError(t, err)
	assert.False(t, merged.ValidationEnabled())
}

func TestMigrationConfig(t *testing.T) {
	cfg, err := (&Config{SourceURL: "https://portfolio.example.com"}).MergeWithDefaults(Defaults())
	require.NoError(t, err)
	cfg.LogLevel = "debug"

	mc, err := cfg.MigrationConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://portfolio.example.com", mc.Scraping.BaseURL)
	assert.Equal(t, logging.LevelDebug, mc.LogLevel)
	assert.True(t, mc.ValidateData)
	assert.Equal(t, 10*time.Second, mc.Scraping.Timeout)
	assert.Equal(t, time.Second, mc.Scraping.RetryDelay)
	assert.Equal(t, "./migrated-content", mc.OutputDir)
	assert.Equal(t, []string{"UI/UX Designer"}, mc.Scraping.ProfileAltMarkers)
}

func TestMigrationConfig_ProfileAltMarkersFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.json5", `{scraping: {profile_alt_markers: ["Product Designer"]}}`)
	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	cfg, err := loaded.MergeWithDefaults(Defaults())
	require.NoError(t, err)
	mc, err := cfg.MigrationConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"Product Designer"}, mc.Scraping.ProfileAltMarkers)
}

func TestMigrationConfig_BadLevel(t *testing.T) {
	_, err := (&Config{LogLevel: "loud"}).MigrationConfig()
	assert.Error(t, err)
}
