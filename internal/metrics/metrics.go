package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the directory.
// It includes counters for fetch runs, transformed records and drafting calls,
// gauges for the last successful fetch and the bookmark count, and histograms
// for fetch and storage query durations.
type Metrics struct {
	FetchRuns           *prometheus.CounterVec
	ItemsTransformed    *prometheus.CounterVec
	LastSuccessfulFetch prometheus.Gauge
	FetchDuration       prometheus.Histogram
	EmailsFixed         prometheus.Counter
	BioDrafts           *prometheus.CounterVec
	Bookmarks           prometheus.Gauge
	DBQueryDuration     *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		FetchRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "glimpse_fetch_runs_total",
			Help: "Total times the employee listing was fetched, by outcome.",
		}, []string{"status"}),
		ItemsTransformed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "glimpse_items_transformed_total",
			Help: "Total number of raw records turned into employees",
		}, []string{"type"}),
		LastSuccessfulFetch: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "glimpse_last_successful_fetch_timestamp",
			Help: "Last time the employee listing was fetched successfully",
		}),
		FetchDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "glimpse_fetch_duration_seconds",
			Help: "Measures how long a full fetch and transform cycle takes",
		}),
		EmailsFixed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "glimpse_emails_fixed_total",
			Help: "Total number of employee emails that were generated because the source had none.",
		}),
		BioDrafts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "glimpse_bio_drafts_total",
			Help: "Total biography drafting calls, by outcome.",
		}, []string{"status"}),
		Bookmarks: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "glimpse_bookmarks",
			Help: "Current number of bookmarked employees.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "glimpse_db_query_duration_seconds",
			Help:    "Duration of key/value store queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'kv_get', 'kv_set', 'kv_delete'
	}

	metrics.FetchRuns.WithLabelValues("success")
	metrics.FetchRuns.WithLabelValues("failure")
	metrics.FetchRuns.WithLabelValues("superseded")
	metrics.BioDrafts.WithLabelValues("success")
	metrics.BioDrafts.WithLabelValues("failure")

	return metrics
}
