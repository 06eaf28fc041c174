// Package metrics exposes Prometheus counters for the HTTP surface, the
// ledger and snapshot persistence.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, latency time.Duration)
	RecordLogin(success bool)
	RecordRegistration()
	RecordTransaction(txType string, amount int64)
	RecordPersist(backend string, err error)
}

type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	logins        *prometheus.CounterVec
	registrations prometheus.Counter
	transactions  *prometheus.CounterVec
	txVolume      *prometheus.CounterVec
	persists      *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learn2earn_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "learn2earn_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learn2earn_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "learn2earn_registrations_total",
			Help: "Successful registrations.",
		}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learn2earn_ledger_transactions_total",
			Help: "Ledger transactions appended, by type.",
		}, []string{"type"}),
		txVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learn2earn_ledger_volume_total",
			Help: "Sum of appended transaction amounts, by type.",
		}, []string{"type"}),
		persists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learn2earn_store_persist_total",
			Help: "Snapshot writes by backend and result.",
		}, []string{"backend", "result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.logins,
		c.registrations,
		c.transactions,
		c.txVolume,
		c.persists,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, latency time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

func (c *Collector) RecordTransaction(txType string, amount int64) {
	c.transactions.WithLabelValues(txType).Inc()
	c.txVolume.WithLabelValues(txType).Add(float64(amount))
}

func (c *Collector) RecordPersist(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.persists.WithLabelValues(backend, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordLogin(bool) {}
func (Nop) RecordRegistration() {}
func (Nop) RecordTransaction(string, int64) {}
func (Nop) RecordPersist(string, error) {}
