package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-migrator/internal/config"
	"github.com/jonathan/portfolio-migrator/internal/images"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migration"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
	"github.com/jonathan/portfolio-migrator/internal/observability"
)

var downloadImagesCommand = &cobra.Command{
	Use:   "download-images",
	Short: "Download the images referenced by a review dump into the public directory",
	Long: `Reads a review dump written by extract, assigns each image a role (project main and gallery,
profile avatar, hero and background) and downloads them under <public-dir>/images with
deterministic names. Failed downloads are reported but do not fail the command.

The public directory, retry count and log level can be loaded from a JSON5 file using --config.
Command-line arguments override config file values.`,
	RunE: runDownloadImages,
}

var (
	downloadConfigPath  string
	downloadContentPath string
	downloadPublicDir   string
	downloadRetries     int
	downloadPathsOut    string
	downloadMetricsFile string
	downloadListLegacy  bool
	downloadVerbose     bool
)

func init() {
	downloadImagesCommand.Flags().StringVar(&downloadConfigPath, "config", "", "Path to config.json5 file (values can be overridden by other flags)")
	downloadImagesCommand.Flags().StringVarP(&downloadContentPath, "content", "c", "", "Path to extracted-content.json review dump")
	downloadImagesCommand.Flags().StringVarP(&downloadPublicDir, "public-dir", "p", images.DefaultPublicDir, "Public directory of the new site")
	downloadImagesCommand.Flags().IntVar(&downloadRetries, "retries", images.DefaultMaxRetries, "Attempts per image")
	downloadImagesCommand.Flags().StringVar(&downloadPathsOut, "paths-out", "", "Write the image path mapping as JSON to this file")
	downloadImagesCommand.Flags().StringVar(&downloadMetricsFile, "metrics-file", "", "Write download metrics in Prometheus text format to this file")
	downloadImagesCommand.Flags().BoolVar(&downloadListLegacy, "list-legacy", false, "List files in the legacy <public-dir>/projects directory")
	downloadImagesCommand.Flags().BoolVarP(&downloadVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = downloadImagesCommand.MarkFlagRequired("content")

	rootCmd.AddCommand(downloadImagesCommand)
}

func runDownloadImages(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadDownloadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if downloadVerbose {
		level = logging.LevelDebug
	}

	content, err := migration.ReadReviewDump(downloadContentPath)
	if err != nil {
		return err
	}

	logger := logging.New(level)
	metrics := monitoring.New()

	downloader := images.NewDownloader(images.DefaultDownloaderOptions(), logger, metrics)
	m := images.NewMigration(cfg.PublicDir, downloader, logger)
	m.SetMaxRetries(cfg.MaxImageRetries)

	projects, profile := images.PlanFromContent(content)
	result, err := m.MigrateImages(ctx, projects, profile)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintImageMigration(result)
	printer.PrintImagePaths(result.ImagePaths)

	if !m.ValidateMigration(result.ImagePaths) {
		_, _ = fmt.Fprintln(os.Stdout, "Some mapped images are missing; see the log for details")
	}

	if downloadListLegacy {
		legacy, err := m.CleanupOldImages()
		if err != nil {
			return err
		}
		for _, path := range legacy {
			_, _ = fmt.Fprintf(os.Stdout, "legacy: %s\n", path)
		}
	}

	if downloadPathsOut != "" {
		data, err := json.MarshalIndent(result.ImagePaths, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode image paths: %w", err)
		}
		if err := os.WriteFile(downloadPathsOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write image paths: %w", err)
		}
	}

	if downloadMetricsFile != "" {
		if err := metrics.WriteTextfile(downloadMetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	return nil
}

// loadDownloadConfig merges the config file, flags and defaults, in that priority.
func loadDownloadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if downloadConfigPath != "" {
		loaded, err := config.LoadConfig(downloadConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("public-dir") {
		cfg.PublicDir = downloadPublicDir
	}
	if cmd.Flags().Changed("retries") {
		cfg.MaxImageRetries = downloadRetries
	}

	merged, err := cfg.MergeWithDefaults(config.Defaults())
	if err != nil {
		return cfg, err
	}
	if err := merged.Validate(); err != nil {
		return merged, err
	}
	return merged, nil
}
