// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/titanous/json5"

	"github.com/jonathan/portfolio-migrator/internal/extraction"
	"github.com/jonathan/portfolio-migrator/internal/images"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migration"
)

// Config represents the CLI configuration that can be loaded from a JSON5 file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Source
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"` // Old portfolio URL

	// Output
	OutputDir string `json:"output_dir,omitempty"` // Review dumps go under <output_dir>/backups
	DataDir   string `json:"data_dir,omitempty"`   // Regenerated projects.ts, personal.ts, skills.ts
	PublicDir string `json:"public_dir,omitempty"` // Root of the downloaded image tree

	// Behavior
	LogLevel        string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	ValidateData    *bool  `json:"validate_data,omitempty"` // Defaults to true
	UseBrowser      bool   `json:"use_browser,omitempty"`   // Render the source page in headless Chrome
	MaxImageRetries int    `json:"max_image_retries,omitempty" validate:"gte=0,lte=10"`

	Scraping Scraping `json:"scraping,omitempty"`
}

// Scraping tunes page fetching and the extraction heuristics.
type Scraping struct {
	TimeoutMS          int      `json:"timeout_ms,omitempty" validate:"gte=0"`
	RetryAttempts      int      `json:"retry_attempts,omitempty" validate:"gte=0,lte=10"`
	RetryDelayMS       int      `json:"retry_delay_ms,omitempty" validate:"gte=0"`
	KnownProjectTitles []string `json:"known_project_titles,omitempty" validate:"dive,required"`
	LiveHosts          []string `json:"live_hosts,omitempty" validate:"dive,hostname"`
	ProfileAltMarkers  []string `json:"profile_alt_markers,omitempty" validate:"dive,required"`
}

// Defaults returns the configuration used when neither file nor flags set a value.
func Defaults() Config {
	validate := true
	opts := extraction.DefaultOptions()
	return Config{
		OutputDir:       migration.DefaultOutputDir,
		PublicDir:       images.DefaultPublicDir,
		LogLevel:        "info",
		ValidateData:    &validate,
		MaxImageRetries: images.DefaultMaxRetries,
		Scraping: Scraping{
			TimeoutMS:          int(opts.Timeout / time.Millisecond),
			RetryAttempts:      opts.RetryAttempts,
			RetryDelayMS:       int(opts.RetryDelay / time.Millisecond),
			KnownProjectTitles: opts.KnownProjectTitles,
			LiveHosts:          opts.LiveHosts,
			ProfileAltMarkers:  opts.ProfileAltMarkers,
		},
	}
}

// LoadConfig loads configuration from a JSON5 file. A sibling <name>.local.<ext>
// file, when present, overrides any values it sets.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	var cfg Config
	if err := readInto(path, &cfg); err != nil {
		return nil, err
	}

	local := localPath(path)
	var override Config
	if err := readInto(local, &override); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return &cfg, nil
	}
	if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge %s: %w", local, err)
	}

	return &cfg, nil
}

func readInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json5.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config JSON5: %w", err)
	}
	return nil
}

// localPath maps dir/config.json5 to dir/config.local.json5.
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed the '%s' rule", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.DataDir != "" && c.PublicDir != "" && filepath.Clean(c.DataDir) == filepath.Clean(c.PublicDir) {
		return fmt.Errorf("config error: 'data_dir' and 'public_dir' must differ")
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// Bools other than ValidateData cannot distinguish unset from false, so CLI flags always win for them.
func (c *Config) MergeWithDefaults(defaults Config) (Config, error) {
	result := *c
	if err := mergo.Merge(&result, defaults); err != nil {
		return Config{}, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	return result, nil
}

// ValidationEnabled reports whether extracted data should be validated.
func (c *Config) ValidationEnabled() bool {
	return c.ValidateData == nil || *c.ValidateData
}

// MigrationConfig converts c into the runner's configuration.
func (c *Config) MigrationConfig() (migration.Config, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return migration.Config{}, fmt.Errorf("config error: %w", err)
	}

	return migration.Config{
		SourceURL:    c.SourceURL,
		OutputDir:    c.OutputDir,
		LogLevel:     level,
		ValidateData: c.ValidationEnabled(),
		Scraping: extraction.Options{
			BaseURL:            c.SourceURL,
			Timeout:            time.Duration(c.Scraping.TimeoutMS) * time.Millisecond,
			RetryAttempts:      c.Scraping.RetryAttempts,
			RetryDelay:         time.Duration(c.Scraping.RetryDelayMS) * time.Millisecond,
			KnownProjectTitles: c.Scraping.KnownProjectTitles,
			LiveHosts:          c.Scraping.LiveHosts,
			ProfileAltMarkers:  c.Scraping.ProfileAltMarkers,
		},
	}, nil
}
