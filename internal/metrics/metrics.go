// Package metrics holds the Prometheus collectors of the bidding engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lotbid"

// Metrics implements the recorder interfaces of the bidding service, the
// closer and the event bus.
type Metrics struct {
	bidsPlaced          prometheus.Counter
	bidsRejected        *prometheus.CounterVec
	conflictRetries     prometheus.Counter
	lotsExtended        prometheus.Counter
	lotsClosed          *prometheus.CounterVec
	sweepErrors         prometheus.Counter
	sweepDuration       prometheus.Histogram
	invariantViolations *prometheus.CounterVec
	eventsDelivered     *prometheus.CounterVec
	eventsDropped       prometheus.Counter
	httpRequests        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		bidsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_placed_total",
			Help:      "Bids committed.",
		}),
		bidsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bids_rejected_total",
			Help:      "Bids rejected, by reason code.",
		}, []string{"code"}),
		conflictRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bid_conflict_retries_total",
			Help:      "Bid attempts that hit a write conflict.",
		}),
		lotsExtended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lots_extended_total",
			Help:      "Soft-close extensions applied.",
		}),
		lotsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lots_closed_total",
			Help:      "Lots finalized by the closer, by final status.",
		}, []string{"status"}),
		sweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_lot_errors_total",
			Help:      "Per-lot failures during sweeps.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of closer sweeps.",
			Buckets:   prometheus.DefBuckets,
		}),
		invariantViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invariant_violations_total",
			Help:      "States that must never exist, by component.",
		}, []string{"component"}),
		eventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Domain events handed to a sink, by sink and result.",
		}, []string{"sink", "result"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Domain events dropped because the bus queue was full.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method and status code.",
		}, []string{"method", "code"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.bidsPlaced,
		m.bidsRejected,
		m.conflictRetries,
		m.lotsExtended,
		m.lotsClosed,
		m.sweepErrors,
		m.sweepDuration,
		m.invariantViolations,
		m.eventsDelivered,
		m.eventsDropped,
		m.httpRequests,
	)

	return m
}

// NewDefault registers the collectors on a new registry together with the
// Go runtime and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) BidPlaced()              { m.bidsPlaced.Inc() }
func (m *Metrics) BidRejected(code string) { m.bidsRejected.WithLabelValues(code).Inc() }
func (m *Metrics) ConflictRetried()        { m.conflictRetries.Inc() }
func (m *Metrics) LotExtended()            { m.lotsExtended.Inc() }
func (m *Metrics) LotClosed(status string) { m.lotsClosed.WithLabelValues(status).Inc() }
func (m *Metrics) SweepLotFailed()         { m.sweepErrors.Inc() }
func (m *Metrics) EventDropped()           { m.eventsDropped.Inc() }

func (m *Metrics) InvariantViolated(component string) {
	m.invariantViolations.WithLabelValues(component).Inc()
}

func (m *Metrics) SweepObserved(d time.Duration) {
	m.sweepDuration.Observe(d.Seconds())
}

// EventDelivered records the outcome of handing one event to a sink.
func (m *Metrics) EventDelivered(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsDelivered.WithLabelValues(sink, result).Inc()
}

// HTTPRequest records a finished request.
func (m *Metrics) HTTPRequest(method string, code int) {
	m.httpRequests.WithLabelValues(method, http.StatusText(code)).Inc()
}
