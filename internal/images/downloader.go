package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/portfolio-migrator/internal/fetch"
	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
)

const (
	// DefaultImageTimeout bounds a single image request
	DefaultImageTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of attempts per image in a batch
	DefaultMaxRetries = 3
	// maxRedirects bounds how many 301/302 hops a single download follows
	maxRedirects = 5
)

// DownloadConfig is one image to fetch and where to store it.
type DownloadConfig struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	Directory string `json:"directory"`
}

// Path returns the destination file.
func (c DownloadConfig) Path() string {
	return filepath.Join(c.Directory, c.Filename)
}

// DownloadResult reports the outcome of one download. Failures are described by
// Error; they are never returned as Go errors.
type DownloadResult struct {
	Success  bool   `json:"success"`
	Filepath string `json:"filepath,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DownloaderOptions configures a Downloader.
type DownloaderOptions struct {
	Timeout    time.Duration
	RetryDelay time.Duration
	UserAgent  string
}

// DefaultDownloaderOptions returns the standard timeout and retry delay.
func DefaultDownloaderOptions() DownloaderOptions {
	return DownloaderOptions{
		Timeout:    DefaultImageTimeout,
		RetryDelay: time.Second,
		UserAgent:  fetch.DefaultUserAgent,
	}
}

// Downloader fetches images over HTTP and writes them to disk.
type Downloader struct {
	client  *resty.Client
	opts    DownloaderOptions
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewDownloader builds a Downloader. Redirects are not followed by the client;
// DownloadImage handles 301/302 itself.
func NewDownloader(opts DownloaderOptions, logger *logging.Logger, metrics *monitoring.Metrics) *Downloader {
	defaults := DefaultDownloaderOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = defaults.RetryDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if logger == nil {
		logger = logging.Discard()
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug("Requesting image", map[string]any{"url": req.URL})
		return nil
	})

	return &Downloader{client: client, opts: opts, logger: logger, metrics: metrics}
}

// DownloadImage saves cfg.URL to cfg.Directory/cfg.Filename. An existing
// destination file counts as success and no request is made.
func (d *Downloader) DownloadImage(ctx context.Context, cfg DownloadConfig) DownloadResult {
	return d.download(ctx, cfg, 0)
}

// DownloadImages downloads configs one after another, retrying each up to maxRetries times.
func (d *Downloader) DownloadImages(ctx context.Context, configs []DownloadConfig, maxRetries int) []DownloadResult {
	return DownloadBatch(ctx, d, configs, BatchOptions{
		MaxRetries: maxRetries,
		Delay:      d.opts.RetryDelay,
		Logger:     d.logger,
		Metrics:    d.metrics,
	})
}

func (d *Downloader) download(ctx context.Context, cfg DownloadConfig, hops int) DownloadResult {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return DownloadResult{Error: err.Error()}
	}

	dest := cfg.Path()
	if _, err := os.Stat(dest); err == nil {
		d.logger.Info("Image already exists", map[string]any{"path": dest})
		d.metrics.ObserveDownload("cached", 0)
		return DownloadResult{Success: true, Filepath: dest}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return DownloadResult{Error: err.Error()}
	}

	start := time.Now()
	result := d.transfer(ctx, cfg, dest, hops)
	// redirected downloads are counted once, by the outermost call
	if !result.Success && hops == 0 {
		d.metrics.ObserveDownload("failed", time.Since(start))
	}
	return result
}

func (d *Downloader) transfer(ctx context.Context, cfg DownloadConfig, dest string, hops int) DownloadResult {
	start := time.Now()

	res, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(cfg.URL)
	if res != nil && res.RawBody() != nil {
		defer func() { _ = res.RawBody().Close() }()
	}
	if err != nil {
		if isTimeout(err) {
			return DownloadResult{Error: "Request timeout"}
		}
		return DownloadResult{Error: fmt.Sprintf("Request error: %v", err)}
	}

	status := res.StatusCode()
	d.logger.Debug("Image response", map[string]any{"url": cfg.URL, "status": status, "elapsed": time.Since(start).String()})
	if status == http.StatusMovedPermanently || status == http.StatusFound {
		if location := res.Header().Get("Location"); location != "" {
			if hops >= maxRedirects {
				return DownloadResult{Error: "Request error: too many redirects"}
			}
			next := cfg
			next.URL = resolveLocation(cfg.URL, location)
			d.logger.Debug("Following image redirect", map[string]any{"from": cfg.URL, "to": next.URL})
			return d.download(ctx, next, hops+1)
		}
	}

	if status != http.StatusOK {
		return DownloadResult{Error: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))}
	}

	if err := writeFile(dest, res.RawBody()); err != nil {
		return DownloadResult{Error: fmt.Sprintf("File write error: %v", err)}
	}

	d.logger.Info("Downloaded", map[string]any{"path": dest})
	d.metrics.ObserveDownload("downloaded", time.Since(start))
	return DownloadResult{Success: true, Filepath: dest}
}

// writeFile streams body into dest, removing the partial file on failure.
func writeFile(dest string, body io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}
	return nil
}

func resolveLocation(base, location string) string {
	b, err := url.Parse(base)
	if err != nil {
		return location
	}
	l, err := url.Parse(location)
	if err != nil {
		return location
	}
	return b.ResolveReference(l).String()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
