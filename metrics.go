package jwtmiddleware

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/auth0/go-jwt-middleware/v4/core"
)

// Metrics is a generic metrics interface for the middleware.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// Metric names recorded by the middleware.
const (
	MetricValidations        = "jwt_validations_total"
	MetricValidationDuration = "jwt_validation_duration_seconds"
)

// Validation results used as the "result" tag.
const (
	resultValid           = "valid"
	resultAnonymous       = "anonymous"
	resultMissing         = "missing"
	resultInvalid         = "invalid"
	resultBackendError    = "error"
	resultExtractionError = "extraction_error"
)

func resultFor(err error) string {
	var vErr *core.ValidationError
	switch {
	case errors.Is(err, ErrJWTMissing):
		return resultMissing
	case errors.As(err, &vErr) && vErr.IsBackend():
		return resultBackendError
	case errors.Is(err, ErrJWTInvalid):
		return resultInvalid
	}
	return resultBackendError
}

func (m *JWTMiddleware) record(result, code string, elapsed time.Duration) {
	m.metrics.IncCounter(MetricValidations, map[string]string{"result": result, "code": code})
	if elapsed > 0 {
		m.metrics.ObserveHistogram(MetricValidationDuration, elapsed.Seconds(), map[string]string{"result": result})
	}
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) IncCounter(string, map[string]string)                {}
func (NoopMetrics) ObserveHistogram(string, float64, map[string]string) {}

// PrometheusMetrics implements the Metrics interface using Prometheus.
// Collectors are created and registered on first use of a name; later calls
// for that name must carry the same tag keys.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics returns a Metrics implementation that registers its
// collectors with reg, or with prometheus.DefaultRegisterer when reg is nil.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name + " counter"}, labelNames(tags))
		vec = registerOrExisting(m.registerer, vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    name + " histogram",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, labelNames(tags))
		vec = registerOrExisting(m.registerer, vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Observe(value)
}

// registerOrExisting registers c, or returns the collector already
// registered under the same description.
func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func labelNames(tags map[string]string) []string {
	return slices.Sorted(maps.Keys(tags))
}
