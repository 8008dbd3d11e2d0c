package extraction

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-migrator/internal/fetch"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
	"github.com/jonathan/portfolio-migrator/internal/types"
)

// Options configures an Extractor. Zero fields take the values from DefaultOptions.
type Options struct {
	BaseURL       string        `json:"baseUrl"`
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retryAttempts"`
	RetryDelay    time.Duration `json:"retryDelay"`

	// KnownProjectTitles are matched against image alt text and headings.
	KnownProjectTitles []string `json:"knownProjectTitles,omitempty"`
	// ProfileAltMarkers exclude profile pictures from project candidates.
	ProfileAltMarkers []string `json:"profileAltMarkers,omitempty"`
	// LiveHosts are the hosts whose links count as a project's live URL.
	LiveHosts []string `json:"liveHosts,omitempty"`
}

// DefaultOptions returns the defaults for everything except BaseURL.
func DefaultOptions() Options {
	return Options{
		Timeout:            fetch.DefaultTimeout,
		RetryAttempts:      fetch.DefaultRetryAttempts,
		RetryDelay:         fetch.DefaultRetryDelay,
		KnownProjectTitles: []string{"HYPD", "GreenCloz", "Aero"},
		ProfileAltMarkers:  []string{"UI/UX Designer"},
		LiveHosts:          []string{"behance.net", "dribbble.com"},
	}
}

// Extractor pulls portfolio content from one source page.
// Every Extract* call fetches the page on its own.
type Extractor struct {
	opts   Options
	base   *url.URL
	source *fetch.Retrier
	logger *logging.Logger
}

// New validates opts and builds an Extractor. A nil source fetches over plain HTTP;
// whatever the source, fetches go through a Retrier built from opts.
func New(opts Options, logger *logging.Logger, source fetch.Source) (*Extractor, error) {
	if err := mergo.Merge(&opts, DefaultOptions()); err != nil {
		return nil, fmt.Errorf("failed to apply extractor defaults: %w", err)
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, migrationerr.NewParseError(
			fmt.Sprintf("invalid base URL: %s (must have scheme and host)", opts.BaseURL),
			opts.BaseURL,
		)
	}

	if logger == nil {
		logger = logging.Discard()
	}
	if source == nil {
		source = &fetch.HTTPSource{Options: &fetch.Options{UserAgent: fetch.DefaultUserAgent}}
	}

	return &Extractor{
		opts: opts,
		base: base,
		source: &fetch.Retrier{
			Source:   source,
			Attempts: opts.RetryAttempts,
			Delay:    opts.RetryDelay,
			Timeout:  opts.Timeout,
			Logger:   logger,
		},
		logger: logger,
	}, nil
}

// SetMetrics records fetch attempts on m.
func (e *Extractor) SetMetrics(m *monitoring.Metrics) {
	e.source.Metrics = m
}

// Options returns the effective options after defaults were applied.
func (e *Extractor) Options() Options {
	return e.opts
}

// ExtractAll runs the four extractions concurrently. If any of them fails the
// first failure is returned as a *ContentExtractionError.
func (e *Extractor) ExtractAll(ctx context.Context) (*types.ExtractedContent, error) {
	e.logger.Info("Extracting page content", map[string]any{"baseUrl": e.opts.BaseURL})

	var (
		projects []types.Project
		personal *PersonalInfoResult
		skills   []types.Skill
		imgs     []types.ExtractedImage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = e.ExtractProjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		personal, err = e.ExtractPersonalInfo(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = e.ExtractSkills(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		imgs, err = e.ExtractImages(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		e.logger.Error("Content extraction failed", err, nil)
		return nil, &ContentExtractionError{Message: "failed to extract content", Cause: err}
	}

	// empty collections serialize as [] rather than null
	if projects == nil {
		projects = []types.Project{}
	}
	if skills == nil {
		skills = []types.Skill{}
	}
	if imgs == nil {
		imgs = []types.ExtractedImage{}
	}

	content := &types.ExtractedContent{
		Projects:              projects,
		PersonalInfo:          personal.Info,
		Skills:                skills,
		Images:                imgs,
		PersonalInfoFallbacks: personal.Fallbacks,
	}

	e.logger.Info("Extracted page content", map[string]any{
		"projects": len(projects),
		"skills":   len(skills),
		"images":   len(imgs),
	})

	return content, nil
}

// ExtractProjects fetches the page and returns its projects.
func (e *Extractor) ExtractProjects(ctx context.Context) ([]types.Project, error) {
	e.logger.Info("Extracting projects...", nil)
	doc, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	projects := e.ProjectsFromDocument(doc)
	e.logger.Info(fmt.Sprintf("Successfully extracted %d projects", len(projects)), nil)
	return projects, nil
}

// ExtractPersonalInfo fetches the page and returns the owner's details.
func (e *Extractor) ExtractPersonalInfo(ctx context.Context) (*PersonalInfoResult, error) {
	e.logger.Info("Extracting personal information...", nil)
	doc, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	result := e.PersonalInfoFromDocument(doc)
	if len(result.Fallbacks) > 0 {
		e.logger.Warn("Personal info fields fell back to placeholders", map[string]any{"fields": result.Fallbacks})
	}
	e.logger.Info("Successfully extracted personal information", map[string]any{"name": result.Info.Name})
	return result, nil
}

// ExtractSkills fetches the page and returns the skill list.
func (e *Extractor) ExtractSkills(ctx context.Context) ([]types.Skill, error) {
	e.logger.Info("Extracting skills...", nil)
	doc, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	skills := e.SkillsFromDocument(doc)
	e.logger.Info(fmt.Sprintf("Successfully extracted %d skills", len(skills)), nil)
	return skills, nil
}

// ExtractImages fetches the page and returns every image reference on it.
func (e *Extractor) ExtractImages(ctx context.Context) ([]types.ExtractedImage, error) {
	e.logger.Info("Extracting images...", nil)
	doc, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	imgs := e.ImagesFromDocument(doc)
	e.logger.Info(fmt.Sprintf("Successfully extracted %d images", len(imgs)), nil)
	return imgs, nil
}

func (e *Extractor) load(ctx context.Context) (*goquery.Document, error) {
	html, err := e.source.Fetch(ctx, e.opts.BaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, migrationerr.Wrap(migrationerr.CodeParse, "failed to parse HTML", err,
			map[string]any{"url": e.opts.BaseURL})
	}
	return doc, nil
}

// resolveURL makes src absolute against the base URL.
func (e *Extractor) resolveURL(src string) string {
	src = strings.TrimSpace(src)
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return e.base.ResolveReference(ref).String()
}
