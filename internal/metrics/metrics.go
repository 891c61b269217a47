// Package metrics exposes the listing pipeline and HTTP layer to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"assetdesk/internal/listing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements listing.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	derivations   *prometheus.CounterVec
	stale         *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	jobRuns       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		derivations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdesk_list_derivations_total",
			Help: "List derivations started, by collection",
		}, []string{"kind"}),
		stale: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdesk_list_stale_responses_total",
			Help: "Source responses discarded because a newer query superseded them",
		}, []string{"kind"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdesk_mutations_total",
			Help: "Create, update and delete calls by collection and outcome",
		}, []string{"kind", "op", "outcome"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetdesk_source_query_duration_seconds",
			Help:    "Data source query latency",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"kind"}),
		queryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdesk_source_query_errors_total",
			Help: "Failed data source queries by failure class",
		}, []string{"kind", "failure"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdesk_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdesk_job_runs_total",
			Help: "Background job runs by job and outcome",
		}, []string{"job", "outcome"}),
	}
}

// Registry is served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) QueryObserved(kind string, elapsed time.Duration, err error) {
	m.queryDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		m.queryErrors.WithLabelValues(kind, string(listing.FailureOf(err))).Inc()
	}
}

func (m *Metrics) MutationObserved(kind, op string, err error) {
	m.mutations.WithLabelValues(kind, op, outcome(err)).Inc()
}

func (m *Metrics) Derivation(kind string) { m.derivations.WithLabelValues(kind).Inc() }

func (m *Metrics) StaleDiscarded(kind string) { m.stale.WithLabelValues(kind).Inc() }

func (m *Metrics) RequestObserved(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) JobRun(job string, err error) {
	m.jobRuns.WithLabelValues(job, outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(listing.FailureOf(err))
}

var _ listing.Recorder = (*Metrics)(nil)
