package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the client core. A nil *Metrics
// records nothing.
type Metrics struct {
	calls       *prometheus.CounterVec
	retries     *prometheus.CounterVec
	reconnects  prometheus.Counter
	duration    *prometheus.HistogramVec
	cacheLookup *prometheus.CounterVec
}

const metricsNamespace = "odoo"

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "rpc",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewMetrics creates the collectors and registers them with reg
// (prometheus.DefaultRegisterer when nil). Collectors already registered by
// an earlier client are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		calls:   newCounterVec("calls_total", "Completed execute calls by outcome", []string{"model", "method", "result"}),
		retries: newCounterVec("retries_total", "Attempts retried after a transient connection fault", []string{"model", "method"}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "rpc",
			Name:      "reconnects_total",
			Help:      "Sessions dropped after a transient connection fault",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "rpc",
				Name:      "call_duration_seconds",
				Help:      "Wall time of execute calls including rate limiting and retries",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 120},
			},
			[]string{"model", "method"},
		),
		cacheLookup: newCounterVec("fields_cache_lookups_total", "Field schema cache lookups by outcome", []string{"result"}),
	}

	var err error
	if m.calls, err = registerOrReuse(reg, m.calls); err != nil {
		return nil, err
	}
	if m.retries, err = registerOrReuse(reg, m.retries); err != nil {
		return nil, err
	}
	if m.reconnects, err = registerOrReuse(reg, m.reconnects); err != nil {
		return nil, err
	}
	if m.duration, err = registerOrReuse(reg, m.duration); err != nil {
		return nil, err
	}
	if m.cacheLookup, err = registerOrReuse(reg, m.cacheLookup); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, returning the already registered collector
// with the same descriptor instead when there is one.
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return c, err
		}
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, nil
}

func (m *Metrics) observeCall(model, method, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(model, method, result).Inc()
	m.duration.WithLabelValues(model, method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRetry(model, method string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(model, method).Inc()
}

func (m *Metrics) observeReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookup.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookup.WithLabelValues("miss").Inc()
	}
}
