package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/portfolio-migrator/internal/logging"
	"github.com/jonathan/portfolio-migrator/internal/migrationerr"
	"github.com/jonathan/portfolio-migrator/internal/monitoring"
)

const (
	// DefaultRetryAttempts is the number of attempts made before giving up
	DefaultRetryAttempts = 3
	// DefaultRetryDelay is the base delay between attempts, multiplied by the attempt number
	DefaultRetryDelay = time.Second
)

// Retrier wraps a Source with a bounded, linearly backed-off retry loop.
// Each attempt gets its own timeout; a non-2xx status or a timeout is retried.
type Retrier struct {
	Source   Source
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
	Logger   *logging.Logger
	Metrics  *monitoring.Metrics

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Fetch implements Source. After the last failed attempt it returns a
// NETWORK_ERROR that wraps the last underlying error.
func (r *Retrier) Fetch(ctx context.Context, url string) (string, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		r.debug("Fetching page", map[string]any{"url": url, "attempt": attempt, "of": attempts})

		html, err := r.attempt(ctx, url)
		if err == nil {
			r.Metrics.ObserveFetch(true)
			return html, nil
		}

		r.Metrics.ObserveFetch(false)
		lastErr = err
		r.warn(fmt.Sprintf("Attempt %d failed", attempt), map[string]any{"url": url, "error": err.Error()})

		if attempt < attempts {
			if sleepErr := r.wait(ctx, r.Delay*time.Duration(attempt)); sleepErr != nil {
				lastErr = sleepErr
				break
			}
		}
	}

	status := 0
	var fetchErr *Error
	if errors.As(lastErr, &fetchErr) {
		status = fetchErr.StatusCode
	}

	return "", migrationerr.Wrap(
		migrationerr.CodeNetwork,
		fmt.Sprintf("failed to fetch %s after %d attempts", url, attempts),
		lastErr,
		map[string]any{"url": url, "statusCode": status, "attempts": attempts},
	)
}

func (r *Retrier) attempt(ctx context.Context, url string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Source.Fetch(ctx, url)
}

func (r *Retrier) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

func (r *Retrier) debug(msg string, fields map[string]any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, fields)
	}
}

func (r *Retrier) warn(msg string, fields map[string]any) {
	if r.Logger != nil {
		r.Logger.Warn(msg, fields)
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
