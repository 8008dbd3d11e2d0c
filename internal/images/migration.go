package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonathan/portfolio-migrator/internal/logging"
)

// BatchDownloader downloads a list of images with per-image retries.
type BatchDownloader interface {
	DownloadImages(ctx context.Context, configs []DownloadConfig, maxRetries int) []DownloadResult
}

// ImagePaths maps project ids and profile roles to site paths.
type ImagePaths struct {
	Projects map[string]string `json:"projects"`
	Profile  map[string]string `json:"profile"`
}

// MigrationResult summarises an image migration.
type MigrationResult struct {
	Success          bool             `json:"success"`
	DownloadedImages int              `json:"downloadedImages"`
	FailedImages     int              `json:"failedImages"`
	Errors           []string         `json:"errors"`
	ImagePaths       ImagePaths       `json:"imagePaths"`
	Results          []DownloadResult `json:"results,omitempty"`
}

// Migration moves every known image into the organized tree.
type Migration struct {
	organizer  *Organizer
	downloader BatchDownloader
	logger     *logging.Logger
	maxRetries int
}

// NewMigration returns a Migration writing under publicDir.
func NewMigration(publicDir string, downloader BatchDownloader, logger *logging.Logger) *Migration {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Migration{
		organizer:  NewOrganizer(publicDir, logger),
		downloader: downloader,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
	}
}

// SetMaxRetries sets the attempts per image. Values below 1 keep the default.
func (m *Migration) SetMaxRetries(n int) {
	if n >= 1 {
		m.maxRetries = n
	}
}

// Organizer exposes the layout used by the migration.
func (m *Migration) Organizer() *Organizer {
	return m.organizer
}

// MigrateImages creates the tree, downloads every configured image and reports
// where each project's main image and each profile image will live.
// Only directory creation failures are returned as errors.
func (m *Migration) MigrateImages(ctx context.Context, projects []ProjectImageConfig, profile ProfileImageConfig) (*MigrationResult, error) {
	m.logger.Info("Starting image migration...", nil)

	if err := m.organizer.CreateDirectoryStructure(); err != nil {
		return nil, err
	}

	configs := append(m.organizer.GenerateProjectImageConfigs(projects), m.organizer.GenerateProfileImageConfigs(profile)...)
	if len(configs) == 0 {
		return &MigrationResult{
			Success:    true,
			Errors:     []string{},
			ImagePaths: ImagePaths{Projects: map[string]string{}, Profile: map[string]string{}},
		}, nil
	}

	m.logger.Info(fmt.Sprintf("Downloading %d images...", len(configs)), nil)
	results := m.downloader.DownloadImages(ctx, configs, m.maxRetries)

	result := &MigrationResult{
		Errors:     []string{},
		ImagePaths: GenerateImagePaths(projects, profile),
		Results:    results,
	}
	for i, r := range results {
		if r.Success {
			result.DownloadedImages++
			continue
		}
		result.FailedImages++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", configs[i].URL, r.Error))
	}
	result.Success = result.FailedImages == 0

	m.logger.Info("Image migration completed", map[string]any{
		"downloaded": result.DownloadedImages,
		"failed":     result.FailedImages,
	})
	return result, nil
}

// GenerateImagePaths derives the site paths purely from the configs.
func GenerateImagePaths(projects []ProjectImageConfig, profile ProfileImageConfig) ImagePaths {
	paths := ImagePaths{Projects: map[string]string{}, Profile: map[string]string{}}
	for _, p := range projects {
		paths.Projects[p.ProjectID] = ProjectImagePath(p.ProjectID, ProjectMain, 0)
	}
	if profile.Avatar != "" {
		paths.Profile[string(ProfileAvatar)] = ProfileImagePath(ProfileAvatar)
	}
	if profile.Hero != "" {
		paths.Profile[string(ProfileHero)] = ProfileImagePath(ProfileHero)
	}
	if profile.Background != "" {
		paths.Profile[string(ProfileBackground)] = ProfileImagePath(ProfileBackground)
	}
	return paths
}

// ValidateMigration checks that every mapped file exists under the public directory.
// Each missing file is logged.
func (m *Migration) ValidateMigration(paths ImagePaths) bool {
	ok := m.checkPaths("project", paths.Projects)
	return m.checkPaths("profile", paths.Profile) && ok
}

func (m *Migration) checkPaths(kind string, paths map[string]string) bool {
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	allValid := true
	for _, k := range keys {
		full := filepath.Join(m.organizer.PublicDir(), filepath.FromSlash(paths[k]))
		if _, err := os.Stat(full); err != nil {
			m.logger.Error(fmt.Sprintf("Missing %s image: %s", kind, full), nil, map[string]any{"key": k})
			allValid = false
		}
	}
	return allValid
}

// CleanupOldImages lists the files in the legacy <publicDir>/projects directory
// that the organized tree replaces. Nothing is deleted.
func (m *Migration) CleanupOldImages() ([]string, error) {
	oldDir := filepath.Join(m.organizer.PublicDir(), "projects")
	entries, err := os.ReadDir(oldDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", oldDir, err)
	}

	m.logger.Info("Cleaning up old project images...", nil)
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(oldDir, e.Name())
		m.logger.Info(fmt.Sprintf("Would clean up: %s", p), nil)
		files = append(files, p)
	}
	return files, nil
}
