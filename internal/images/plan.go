package images

import (
	"strconv"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

// PlanFromContent assigns extracted images to download roles. Each project's
// Image becomes its main image. Its gallery is the other project images that
// share the container id recorded on that main image; project ids themselves
// are enumeration order and are not compared with container ids. The first
// profile image is the avatar; the first two distinct hero images are the
// hero and its background.
func PlanFromContent(content *types.ExtractedContent) ([]ProjectImageConfig, ProfileImageConfig) {
	var profile ProfileImageConfig
	if content == nil {
		return nil, profile
	}

	containerOf := make(map[string]int)
	for _, img := range content.Images {
		if img.Type != types.ImageProject || img.ProjectID == nil {
			continue
		}
		if _, ok := containerOf[img.URL]; !ok {
			containerOf[img.URL] = *img.ProjectID
		}
	}

	projects := make([]ProjectImageConfig, 0, len(content.Projects))
	for _, p := range content.Projects {
		cfg := ProjectImageConfig{
			ProjectID:   strconv.Itoa(p.ID),
			ProjectName: p.Title,
			Images:      ProjectImages{Main: p.Image},
		}
		if container, ok := containerOf[p.Image]; ok {
			seen := map[string]bool{p.Image: true}
			for _, img := range content.Images {
				if img.Type != types.ImageProject || img.ProjectID == nil || *img.ProjectID != container || seen[img.URL] {
					continue
				}
				seen[img.URL] = true
				cfg.Images.Gallery = append(cfg.Images.Gallery, img.URL)
			}
		}
		projects = append(projects, cfg)
	}

	for _, img := range content.Images {
		switch img.Type {
		case types.ImageProfile:
			if profile.Avatar == "" {
				profile.Avatar = img.URL
			}
		case types.ImageHero:
			switch {
			case profile.Hero == "":
				profile.Hero = img.URL
			case profile.Background == "" && img.URL != profile.Hero:
				profile.Background = img.URL
			}
		}
	}

	return projects, profile
}
