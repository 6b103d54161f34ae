// Package metrics exposes Prometheus counters for ledger activity and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "banksampah"

// Redemption outcomes.
const (
	OutcomeRedeemed     = "redeemed"
	OutcomeInsufficient = "insufficient"
)

// Recorder owns a private registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	accountsCreated     prometheus.Counter
	deposits            *prometheus.CounterVec
	pointsCredited      *prometheus.CounterVec
	redemptions         *prometheus.CounterVec
	persistenceFailures prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		accountsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "accounts_created_total",
			Help:      "Total number of accounts created.",
		}),
		deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "deposits_total",
			Help:      "Total number of deposits by material.",
		}, []string{"material"}),
		pointsCredited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_credited_total",
			Help:      "Points credited by deposits, by material.",
		}, []string{"material"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "redemptions_total",
			Help:      "Redemption attempts by reward and outcome.",
		}, []string{"reward", "outcome"}),
		persistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "write_failures_total",
			Help:      "Snapshot saves that failed.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.accountsCreated,
		r.deposits,
		r.pointsCredited,
		r.redemptions,
		r.persistenceFailures,
		r.httpRequests,
		r.httpDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// AccountCreated counts a new account.
func (r *Recorder) AccountCreated() {
	r.accountsCreated.Inc()
}

// Deposit counts an applied deposit and the points it credited.
func (r *Recorder) Deposit(material string, points float64) {
	r.deposits.WithLabelValues(material).Inc()
	r.pointsCredited.WithLabelValues(material).Add(points)
}

// Redemption counts a redemption attempt for a known reward.
func (r *Recorder) Redemption(reward, outcome string) {
	r.redemptions.WithLabelValues(reward, outcome).Inc()
}

// PersistenceFailure counts a failed snapshot save.
func (r *Recorder) PersistenceFailure() {
	r.persistenceFailures.Inc()
}

// HTTPRequest records a served request. route is the matched pattern, not the raw path.
func (r *Recorder) HTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
