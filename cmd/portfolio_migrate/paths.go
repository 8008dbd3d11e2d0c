package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-migrator/internal/images"
)

var pathsCommand = &cobra.Command{
	Use:   "paths",
	Short: "Print the site path an image will be stored at",
	Long: `Prints the deterministic path of a project image (--project-id with --kind and --index)
or a profile image (--profile).`,
	RunE: runPaths,
}

var (
	pathsProjectID string
	pathsKind      string
	pathsIndex     int
	pathsProfile   string
)

func init() {
	pathsCommand.Flags().StringVar(&pathsProjectID, "project-id", "", "Project id")
	pathsCommand.Flags().StringVar(&pathsKind, "kind", string(images.ProjectMain), "Project image kind: main, thumbnail or gallery")
	pathsCommand.Flags().IntVar(&pathsIndex, "index", 1, "1-based thumbnail or gallery index")
	pathsCommand.Flags().StringVar(&pathsProfile, "profile", "", "Profile image kind: avatar, hero or background")

	pathsCommand.MarkFlagsMutuallyExclusive("project-id", "profile")
	pathsCommand.MarkFlagsOneRequired("project-id", "profile")

	rootCmd.AddCommand(pathsCommand)
}

func runPaths(_ *cobra.Command, _ []string) error {
	path, err := imagePath(pathsProjectID, pathsKind, pathsIndex, pathsProfile)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, path)
	return nil
}

func imagePath(projectID, kind string, index int, profile string) (string, error) {
	if profile != "" {
		switch k := images.ProfileImageKind(profile); k {
		case images.ProfileAvatar, images.ProfileHero, images.ProfileBackground:
			return images.ProfileImagePath(k), nil
		}
		return "", fmt.Errorf("unknown profile image kind %q", profile)
	}

	switch k := images.ProjectImageKind(kind); k {
	case images.ProjectMain, images.ProjectThumbnail, images.ProjectGallery:
		return images.ProjectImagePath(projectID, k, index), nil
	}
	return "", fmt.Errorf("unknown project image kind %q", kind)
}
