// Package monitoring collects Prometheus metrics for a migration run.
package monitoring

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and histograms updated by the fetch and download stages.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchAttempts    *prometheus.CounterVec
	ImageDownloads   *prometheus.CounterVec
	DownloadDuration prometheus.Histogram
	DownloadRetries  prometheus.Counter
}

// New registers a fresh set of metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		FetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "migration_fetch_attempts_total",
				Help: "HTML fetch attempts against the source site.",
			},
			[]string{"status"}, // success, failure
		),
		ImageDownloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "migration_image_downloads_total",
				Help: "Single image download attempts by outcome.",
			},
			[]string{"result"}, // downloaded, cached, failed
		),
		DownloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "migration_image_download_duration_seconds",
				Help:    "Duration of single image downloads.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),
		DownloadRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "migration_image_download_retries_total",
				Help: "Image download retries performed by the batch driver.",
			},
		),
	}
	reg.MustRegister(m.FetchAttempts, m.ImageDownloads, m.DownloadDuration, m.DownloadRetries)
	return m
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records one HTML fetch attempt.
func (m *Metrics) ObserveFetch(ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.FetchAttempts.WithLabelValues(status).Inc()
}

// ObserveDownload records one image download attempt.
func (m *Metrics) ObserveDownload(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ImageDownloads.WithLabelValues(result).Inc()
	if result != "cached" {
		m.DownloadDuration.Observe(elapsed.Seconds())
	}
}

// ObserveRetry records a retry issued by the batch driver.
func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.DownloadRetries.Inc()
}

// WriteTextfile writes all metrics in the Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
