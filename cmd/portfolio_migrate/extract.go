package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-migrator/internal/config"
	"github.com/jonathan/portfolio-migrator/internal/fetch"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migration"
	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
	"github.com/jonathan/portfolio-migrator/internal/observability"
	"github.com/jonathan/portfolio-migrator/internal/validation"
)

// sourceURLEnv is read when --source-url is not given.
const sourceURLEnv = "PORTFOLIO_SOURCE_URL"

const browserAttemptTimeout = fetch.DefaultBrowserTimeout + 15*time.Second

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Extract projects, personal info, skills and images from the old portfolio",
	Long: `Fetches the source page, extracts all content, validates it and writes a JSON review dump
under <out>/backups/<timestamp>/. With --data-dir the site's projects.ts, personal.ts and skills.ts
are regenerated as well.

Configuration can be loaded from a JSON5 file using --config. Command-line arguments override config file values.`,
	RunE: runExtract,
}

var (
	extractConfigPath     string
	extractSourceURL      string
	extractOut            string
	extractDataDir        string
	extractSkipValidation bool
	extractUseBrowser     bool
	extractVerbose        bool
	extractLogFile        string
	extractMetricsFile    string
)

func init() {
	extractCommand.Flags().StringVar(&extractConfigPath, "config", "", "Path to config.json5 file (values can be overridden by other flags)")
	extractCommand.Flags().StringVarP(&extractSourceURL, "source-url", "u", "", "Old portfolio URL (defaults to "+sourceURLEnv+" env var)")
	extractCommand.Flags().StringVarP(&extractOut, "out", "o", "", "Output directory for review dumps (default ./migrated-content)")
	extractCommand.Flags().StringVar(&extractDataDir, "data-dir", "", "Directory to write projects.ts, personal.ts and skills.ts into")
	extractCommand.Flags().BoolVar(&extractSkipValidation, "skip-validation", false, "Do not validate extracted data")
	extractCommand.Flags().BoolVar(&extractUseBrowser, "use-browser", false, "Re-render client-side pages in a headless browser (requires Chrome)")
	extractCommand.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print detailed debug information")
	extractCommand.Flags().StringVar(&extractLogFile, "log-file", "", "Write the run log to this file")
	extractCommand.Flags().StringVar(&extractMetricsFile, "metrics-file", "", "Write fetch metrics in Prometheus text format to this file")

	rootCmd.AddCommand(extractCommand)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadExtractConfig(cmd)
	if err != nil {
		return err
	}

	mc, err := cfg.MigrationConfig()
	if err != nil {
		return err
	}
	if extractVerbose {
		mc.LogLevel = logging.LevelDebug
	}

	logger := logging.New(mc.LogLevel)
	metrics := monitoring.New()

	source := newSource(cfg, mc, logger)
	if cfg.UseBrowser && mc.Scraping.Timeout < browserAttemptTimeout {
		// one attempt covers the static fetch plus a full render
		mc.Scraping.Timeout = browserAttemptTimeout
	}

	runner, err := migration.NewRunner(mc, logger,
		migration.WithSource(source),
		migration.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}

	content, runErr := runner.Run(ctx)

	if extractLogFile != "" {
		if err := os.WriteFile(extractLogFile, []byte(runner.Logs()+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write log file: %w", err)
		}
	}
	if extractMetricsFile != "" {
		if err := metrics.WriteTextfile(extractMetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	if runErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, migrationerr.UserMessage(migrationerr.Classify(runErr, "extract")))
		return runErr
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintContentSummary(content)
	printer.PrintProjects(content.Projects)
	printer.PrintSkills(content.Skills)
	printer.PrintReview(validation.ReviewContent(content))

	dumpPath, err := runner.WriteReviewDump(content)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Review dump written to %s\n", dumpPath)

	if cfg.DataDir != "" {
		written, err := runner.WriteDataFiles(cfg.DataDir, content)
		if err != nil {
			return err
		}
		for _, path := range written {
			_, _ = fmt.Fprintf(os.Stdout, "Data file written to %s\n", path)
		}
	}

	return nil
}

// loadExtractConfig merges the config file, flags, environment and defaults, in that priority.
func loadExtractConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if extractConfigPath != "" {
		loaded, err := config.LoadConfig(extractConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("source-url") {
		cfg.SourceURL = extractSourceURL
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = extractOut
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = extractDataDir
	}
	if cmd.Flags().Changed("skip-validation") {
		enabled := !extractSkipValidation
		cfg.ValidateData = &enabled
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = extractUseBrowser
	}
	if cfg.SourceURL == "" {
		cfg.SourceURL = os.Getenv(sourceURLEnv)
	}

	merged, err := cfg.MergeWithDefaults(config.Defaults())
	if err != nil {
		return cfg, err
	}
	if err := merged.Validate(); err != nil {
		return merged, err
	}

	if merged.SourceURL == "" {
		return merged, fmt.Errorf("--source-url must be provided (via flag, config or %s)", sourceURLEnv)
	}
	return merged, nil
}

func newSource(cfg config.Config, mc migration.Config, logger *logging.Logger) fetch.Source {
	static := &fetch.HTTPSource{Options: &fetch.Options{
		Timeout:   mc.Scraping.Timeout,
		UserAgent: fetch.DefaultUserAgent,
	}}
	if !cfg.UseBrowser {
		return static
	}
	return &fetch.AutoSource{
		HTTP:    static,
		Browser: &fetch.BrowserSource{Timeout: fetch.DefaultBrowserTimeout, Logger: logger},
		Logger:  logger,
	}
}
