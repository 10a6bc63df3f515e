// Package metrics exposes optional prometheus/client_golang instrumentation
// for session establishment and raw request traffic (SPEC_FULL.md 4.11).
//
// Grounded on dantte-lp-gobfd/internal/metrics/collector.go's pattern: a
// collector struct holding pre-registered instruments, safe to use as a nil
// receiver so a Client with no attached registry pays zero cost and has no
// hard dependency on a running Prometheus server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds the instruments this library reports. A nil *Collector is
// valid and every method on it is a no-op.
type Collector struct {
	establishAttempts prometheus.Counter
	establishFailures *prometheus.CounterVec
	establishDuration prometheus.Histogram
	rawRequests       *prometheus.CounterVec
	rawRequestErrors  *prometheus.CounterVec
}

// New registers this library's instruments against reg and returns a
// Collector. Passing nil panics; use a nil *Collector (the zero value of
// this type, not New(nil)) to disable metrics entirely.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		establishAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ipmi_session_establish_attempts_total",
			Help: "Number of EstablishConnection calls made.",
		}),
		establishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipmi_session_establish_failures_total",
			Help: "Number of EstablishConnection calls that failed, by stage.",
		}, []string{"stage"}),
		establishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ipmi_session_establish_duration_seconds",
			Help:    "Wall-clock time spent in EstablishConnection.",
			Buckets: prometheus.DefBuckets,
		}),
		rawRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipmi_raw_requests_total",
			Help: "Number of SendRawRequest calls, by NetFn.",
		}, []string{"net_fn"}),
		rawRequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ipmi_raw_request_errors_total",
			Help: "Number of SendRawRequest calls that errored, by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(c.establishAttempts, c.establishFailures, c.establishDuration, c.rawRequests, c.rawRequestErrors)
	return c
}

// EstablishAttempt records one EstablishConnection call.
func (c *Collector) EstablishAttempt() {
	if c == nil {
		return
	}
	c.establishAttempts.Inc()
}

// EstablishFailure records an EstablishConnection failure at the given
// stage ("discovery" or "authentication").
func (c *Collector) EstablishFailure(stage string) {
	if c == nil {
		return
	}
	c.establishFailures.WithLabelValues(stage).Inc()
}

// ObserveEstablishDuration records how long an EstablishConnection call
// took, in seconds.
func (c *Collector) ObserveEstablishDuration(seconds float64) {
	if c == nil {
		return
	}
	c.establishDuration.Observe(seconds)
}

// RawRequest records one SendRawRequest call for the given NetFn name.
func (c *Collector) RawRequest(netFn string) {
	if c == nil {
		return
	}
	c.rawRequests.WithLabelValues(netFn).Inc()
}

// RawRequestError records a SendRawRequest failure of the given kind
// ("no_response", "packet", "session_not_established", ...).
func (c *Collector) RawRequestError(kind string) {
	if c == nil {
		return
	}
	c.rawRequestErrors.WithLabelValues(kind).Inc()
}
