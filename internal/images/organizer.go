// Package images downloads portfolio images and lays them out under the site's
// public directory with deterministic names.
package images

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
)

// DefaultPublicDir is the static asset root used when none is given.
const DefaultPublicDir = "public"

// ProjectImages holds the source URLs for one project's images.
type ProjectImages struct {
	Main       string   `json:"main,omitempty"`
	Thumbnails []string `json:"thumbnails,omitempty"`
	Gallery    []string `json:"gallery,omitempty"`
}

// ProjectImageConfig names a project and its image sources.
type ProjectImageConfig struct {
	ProjectID   string        `json:"projectId"`
	ProjectName string        `json:"projectName"`
	Images      ProjectImages `json:"images"`
}

// ProfileImageConfig holds the owner's image sources.
type ProfileImageConfig struct {
	Avatar     string `json:"avatar,omitempty"`
	Hero       string `json:"hero,omitempty"`
	Background string `json:"background,omitempty"`
}

// ProjectImageKind selects one of a project's image roles.
type ProjectImageKind string

const (
	ProjectMain      ProjectImageKind = "main"
	ProjectThumbnail ProjectImageKind = "thumbnail"
	ProjectGallery   ProjectImageKind = "gallery"
)

// ProfileImageKind selects one of the profile image roles.
type ProfileImageKind string

const (
	ProfileAvatar     ProfileImageKind = "avatar"
	ProfileHero       ProfileImageKind = "hero"
	ProfileBackground ProfileImageKind = "background"
)

// Organizer owns the image directory layout under a public directory.
type Organizer struct {
	publicDir string
	logger    *logging.Logger
}

// NewOrganizer returns an Organizer rooted at publicDir.
func NewOrganizer(publicDir string, logger *logging.Logger) *Organizer {
	if publicDir == "" {
		publicDir = DefaultPublicDir
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Organizer{publicDir: publicDir, logger: logger}
}

// PublicDir returns the root every generated path is relative to.
func (o *Organizer) PublicDir() string {
	return o.publicDir
}

// CreateDirectoryStructure creates the image tree. Existing directories are left alone.
func (o *Organizer) CreateDirectoryStructure() error {
	dirs := []string{
		filepath.Join(o.publicDir, "images"),
		filepath.Join(o.publicDir, "images", "profile"),
		filepath.Join(o.publicDir, "images", "projects"),
		filepath.Join(o.publicDir, "images", "gallery"),
		filepath.Join(o.publicDir, "icons"),
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return migrationerr.Wrap(migrationerr.CodeFileSystem, "failed to inspect directory", err,
				map[string]any{"path": dir, "operation": "stat"})
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return migrationerr.Wrap(migrationerr.CodeFileSystem, "failed to create directory", err,
				map[string]any{"path": dir, "operation": "mkdir"})
		}
		o.logger.Info(fmt.Sprintf("Created directory: %s", dir), nil)
	}
	return nil
}

// GenerateProjectImageConfigs turns project image sources into download jobs.
// The main image is always saved as main.jpg whatever its real format.
func (o *Organizer) GenerateProjectImageConfigs(projects []ProjectImageConfig) []DownloadConfig {
	var configs []DownloadConfig
	for _, p := range projects {
		projectDir := filepath.Join(o.publicDir, "images", "projects", p.ProjectID)

		if p.Images.Main != "" {
			configs = append(configs, DownloadConfig{URL: p.Images.Main, Filename: "main.jpg", Directory: projectDir})
		}
		for i, u := range p.Images.Thumbnails {
			configs = append(configs, DownloadConfig{
				URL:       u,
				Filename:  fmt.Sprintf("thumb-%d.%s", i+1, FileExtension(u)),
				Directory: filepath.Join(projectDir, "thumbnails"),
			})
		}
		for i, u := range p.Images.Gallery {
			configs = append(configs, DownloadConfig{
				URL:       u,
				Filename:  fmt.Sprintf("gallery-%d.%s", i+1, FileExtension(u)),
				Directory: filepath.Join(projectDir, "gallery"),
			})
		}
	}
	return configs
}

// GenerateProfileImageConfigs turns profile image sources into download jobs.
func (o *Organizer) GenerateProfileImageConfigs(profile ProfileImageConfig) []DownloadConfig {
	profileDir := filepath.Join(o.publicDir, "images", "profile")

	var configs []DownloadConfig
	for _, item := range []struct{ url, filename string }{
		{profile.Avatar, "avatar.jpg"},
		{profile.Hero, "hero.jpg"},
		{profile.Background, "hero-bg.jpg"},
	} {
		if item.url != "" {
			configs = append(configs, DownloadConfig{URL: item.url, Filename: item.filename, Directory: profileDir})
		}
	}
	return configs
}

// ProjectImagePath returns the site path of a project image. An index below 1 means 1.
func ProjectImagePath(projectID string, kind ProjectImageKind, index int) string {
	base := "/images/projects/" + projectID
	if index < 1 {
		index = 1
	}
	switch kind {
	case ProjectThumbnail:
		return fmt.Sprintf("%s/thumbnails/thumb-%d.jpg", base, index)
	case ProjectGallery:
		return fmt.Sprintf("%s/gallery/gallery-%d.jpg", base, index)
	default:
		return base + "/main.jpg"
	}
}

// ProfileImagePath returns the site path of a profile image.
func ProfileImagePath(kind ProfileImageKind) string {
	switch kind {
	case ProfileHero:
		return "/images/profile/hero.jpg"
	case ProfileBackground:
		return "/images/profile/hero-bg.jpg"
	default:
		return "/images/profile/avatar.jpg"
	}
}

// FileExtension returns the URL path's extension without the dot, or "jpg".
func FileExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "jpg"
	}
	if ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext != "" {
		return ext
	}
	return "jpg"
}
