// Package migration provides the top-level orchestration for a portfolio content migration.
package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/portfolio-migrator/internal/extraction"
	"github.com/jonathan/portfolio-migrator/internal/fetch"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
	"github.com/jonathan/portfolio-migrator/internal/rendering"
	"github.com/jonathan/portfolio-migrator/internal/types"
	"github.com/jonathan/portfolio-migrator/internal/validation"
)

// DefaultOutputDir is where migration artifacts go when Config.OutputDir is empty.
const DefaultOutputDir = "./migrated-content"

// Config holds the settings for one migration run.
type Config struct {
	SourceURL    string
	OutputDir    string
	LogLevel     logging.Level
	ValidateData bool
	Scraping     extraction.Options
}

// DefaultConfig returns the configuration used by CreateDefault.
func DefaultConfig(sourceURL string) Config {
	scraping := extraction.DefaultOptions()
	scraping.BaseURL = sourceURL
	return Config{
		SourceURL:    sourceURL,
		OutputDir:    DefaultOutputDir,
		LogLevel:     logging.LevelInfo,
		ValidateData: true,
		Scraping:     scraping,
	}
}

// ContentExtractor produces the content for one run. *extraction.Extractor implements it.
type ContentExtractor interface {
	ExtractAll(ctx context.Context) (*types.ExtractedContent, error)
}

// Runner drives extraction and validation for one source page.
type Runner struct {
	cfg       Config
	logger    *logging.Logger
	extractor ContentExtractor
	source    fetch.Source
	metrics   *monitoring.Metrics
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithExtractor replaces the extractor built from Config.Scraping.
func WithExtractor(e ContentExtractor) Option {
	return func(r *Runner) { r.extractor = e }
}

// WithSource sets the page source the default extractor fetches through.
func WithSource(s fetch.Source) Option {
	return func(r *Runner) { r.source = s }
}

// WithMetrics records fetch attempts on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner builds a Runner. A nil logger gets a console logger at cfg.LogLevel.
func NewRunner(cfg Config, logger *logging.Logger, opts ...Option) (*Runner, error) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Scraping.BaseURL == "" {
		cfg.Scraping.BaseURL = cfg.SourceURL
	}
	if logger == nil {
		logger = logging.New(cfg.LogLevel)
	}

	r := &Runner{cfg: cfg, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	if r.extractor == nil {
		e, err := extraction.New(cfg.Scraping, logger, r.source)
		if err != nil {
			return nil, err
		}
		e.SetMetrics(r.metrics)
		r.extractor = e
	}

	return r, nil
}

// CreateDefault returns a Runner for sourceURL with validation enabled.
func CreateDefault(sourceURL string) (*Runner, error) {
	return NewRunner(DefaultConfig(sourceURL), nil)
}

// Config returns the runner's effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Logger returns the run log shared with every component.
func (r *Runner) Logger() *logging.Logger {
	return r.logger
}

// Logs renders the run log as text.
func (r *Runner) Logs() string {
	return r.logger.Export()
}

// ClearLogs empties the run log.
func (r *Runner) ClearLogs() {
	r.logger.Clear()
}

// Run extracts all content and, when enabled, validates it. Any failure is
// returned as a *migrationerr.Error.
func (r *Runner) Run(ctx context.Context) (*types.ExtractedContent, error) {
	r.logger.Info("Starting portfolio content migration", map[string]any{
		"sourceUrl": r.cfg.SourceURL,
		"outputDir": r.cfg.OutputDir,
	})

	content, err := r.run(ctx)
	if err != nil {
		merr := migrationerr.Classify(err, "migration")
		r.logger.Error("Migration failed", merr, nil)
		return nil, merr
	}

	r.logger.Info("Migration completed successfully", nil)
	return content, nil
}

func (r *Runner) run(ctx context.Context) (*types.ExtractedContent, error) {
	content, err := r.extractor.ExtractAll(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Content extraction completed", map[string]any{
		"projectsCount": len(content.Projects),
		"skillsCount":   len(content.Skills),
		"imagesCount":   len(content.Images),
	})

	if r.cfg.ValidateData {
		if err := r.validate(content); err != nil {
			return nil, err
		}
	}

	return content, nil
}

type check struct {
	label   string
	context string
	result  validation.Result
}

func (r *Runner) validate(content *types.ExtractedContent) error {
	r.logger.Info("Validating extracted data...", nil)

	checks, err := validationChecks(content)
	if err != nil {
		merr := migrationerr.Classify(err, "validation")
		r.logger.Error("Data validation failed", merr, nil)
		return merr
	}

	for _, c := range checks {
		if !c.result.IsValid {
			r.logger.Error(c.label+" validation failed", nil, map[string]any{"errors": c.result.Errors})
		}
		if len(c.result.Warnings) > 0 {
			r.logger.Warn(c.label+" validation warnings", map[string]any{"warnings": c.result.Warnings})
		}
	}

	for _, c := range checks {
		if err := validation.AssertValid(c.result, c.context); err != nil {
			merr := migrationerr.Classify(err, "validation")
			r.logger.Error("Data validation failed", merr, nil)
			return merr
		}
	}

	r.logger.Info("Data validation completed successfully", nil)
	return nil
}

func validationChecks(content *types.ExtractedContent) ([]check, error) {
	projects, err := validation.ToRecord(content.Projects)
	if err != nil {
		return nil, fmt.Errorf("failed to encode projects: %w", err)
	}
	personal, err := validation.ToRecord(content.PersonalInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to encode personal info: %w", err)
	}
	skills, err := validation.ToRecord(content.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to encode skills: %w", err)
	}

	return []check{
		{label: "Project", context: "projects", result: validation.ValidateProjects(projects)},
		{label: "Personal info", context: "personal info", result: validation.ValidatePersonalInfo(personal)},
		{label: "Skills", context: "skills", result: validation.ValidateSkills(skills)},
	}, nil
}

// WriteDataFiles regenerates the UI data modules for content under dataDir.
func (r *Runner) WriteDataFiles(dataDir string, content *types.ExtractedContent) ([]string, error) {
	in := rendering.NewDataFileInput(content, r.cfg.SourceURL, r.now())
	written, err := rendering.WriteDataFiles(dataDir, in)
	if err != nil {
		return written, migrationerr.Wrap(migrationerr.CodeFileSystem, "failed to write data files", err,
			map[string]any{"path": dataDir, "operation": "write"})
	}
	for _, path := range written {
		r.logger.Info("Wrote data file", map[string]any{"path": path})
	}
	return written, nil
}

// WriteReviewDump saves content under the runner's output directory.
func (r *Runner) WriteReviewDump(content *types.ExtractedContent) (string, error) {
	path, err := WriteReviewDump(r.cfg.OutputDir, content, r.now())
	if err != nil {
		return "", err
	}
	r.logger.Info("Wrote review dump", map[string]any{"path": path})
	return path, nil
}
