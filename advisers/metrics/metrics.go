// Package metrics provides around advice that records Prometheus call counts
// and latencies for advised targets.
package metrics

import (
	"errors"
	"time"

	"github.com/bpradana/aspect"
	"github.com/prometheus/client_golang/prometheus"
)

// now is overridden in tests to provide deterministic timings.
var now = time.Now

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ErrNilRegisterer indicates NewCollector was called without a registerer.
var ErrNilRegisterer = errors.New("metrics: nil registerer")

// Option configures a Collector.
type Option func(*config)

type config struct {
	namespace string
	buckets   []float64
}

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(cfg *config) {
		cfg.namespace = namespace
	}
}

// WithBuckets overrides the latency histogram buckets.
func WithBuckets(buckets ...float64) Option {
	return func(cfg *config) {
		if len(buckets) > 0 {
			cfg.buckets = buckets
		}
	}
}

// Collector owns the metrics shared by every advice it hands out.
type Collector struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates the call metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	if reg == nil {
		return nil, ErrNilRegisterer
	}
	cfg := config{buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "advised_calls_total",
				Help:      "Total number of calls to advised targets",
			},
			[]string{"target", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "advised_call_duration_seconds",
				Help:      "Duration of calls to advised targets in seconds",
				Buckets:   cfg.buckets,
			},
			[]string{"target"},
		),
	}

	for _, collector := range []prometheus.Collector{c.calls, c.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Around returns advice recording calls under the target label. An empty
// label falls back to the advised member's name.
func (c *Collector) Around(target string) aspect.AroundFunc {
	return func(inv *aspect.Invocation) (any, error) {
		label := target
		if label == "" {
			label = inv.Name
		}

		started := now()
		result, err := inv.Proceed()
		c.duration.WithLabelValues(label).Observe(now().Sub(started).Seconds())

		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeError
		}
		c.calls.WithLabelValues(label, outcome).Inc()
		return result, err
	}
}
