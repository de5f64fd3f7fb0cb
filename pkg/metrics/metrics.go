package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	PipelineStageDuration *prometheus.HistogramVec
	PipelineRunsTotal     *prometheus.CounterVec
	SearchCallsTotal      *prometheus.CounterVec
	ScrapesTotal          *prometheus.CounterVec
	LLMCallsTotal         *prometheus.CounterVec
	QuotaUsed             prometheus.Gauge
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"stage"}, // planning, resolving, scraping, extracting
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs.",
		},
		[]string{"outcome"}, // done, quota_exceeded, planning_failed, no_urls, config_error
	)

	SearchCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_calls_total",
			Help: "Total number of search backend calls.",
		},
		[]string{"status"}, // success, failure
	)

	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Total number of page scrapes.",
		},
		[]string{"status"}, // success, failure, cached
	)

	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total number of language model calls.",
		},
		[]string{"purpose"}, // plan, extract, repair
	)

	QuotaUsed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_quota_used",
			Help: "Search API quota consumed today.",
		},
	)
}
