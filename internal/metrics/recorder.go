// Package metrics exposes Prometheus instrumentation for searches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeConfigError = "config_error"
	OutcomeUpstream    = "upstream_error"
	OutcomeBusy        = "busy"
)

// Recorder holds search metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	places         *prometheus.HistogramVec
	tokens         *prometheus.CounterVec
	inFlight       prometheus.Gauge
	exports        prometheus.Counter
	exportedPlaces prometheus.Counter
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mapscrape_searches_total",
				Help: "Total number of searches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mapscrape_search_duration_seconds",
				Help:    "Duration of generation calls in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"provider"},
		),
		places: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mapscrape_places_extracted",
				Help:    "Number of places extracted per search",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
			},
			[]string{"provider"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mapscrape_tokens_total",
				Help: "Tokens consumed by generation calls",
			},
			[]string{"provider", "kind"},
		),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mapscrape_search_in_flight",
			Help: "Number of searches currently waiting on the generator",
		}),
		exports: factory.NewCounter(prometheus.CounterOpts{
			Name: "mapscrape_exports_total",
			Help: "Total number of CSV exports served",
		}),
		exportedPlaces: factory.NewCounter(prometheus.CounterOpts{
			Name: "mapscrape_exported_places_total",
			Help: "Total number of places written to CSV exports",
		}),
	}
}

// SearchStarted marks a search as in flight. Call the returned func when it ends.
func (r *Recorder) SearchStarted() func() {
	if r == nil {
		return func() {}
	}
	r.inFlight.Inc()
	return r.inFlight.Dec
}

// RecordSearch records the outcome of one search.
func (r *Recorder) RecordSearch(provider, outcome string, places int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.searches.WithLabelValues(provider, outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeEmpty {
		r.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
		r.places.WithLabelValues(provider).Observe(float64(places))
	}
}

// RecordTokens adds token usage for a provider.
func (r *Recorder) RecordTokens(provider string, prompt, completion int) {
	if r == nil {
		return
	}
	r.tokens.WithLabelValues(provider, "prompt").Add(float64(prompt))
	r.tokens.WithLabelValues(provider, "completion").Add(float64(completion))
}

// RecordExport records a served CSV export.
func (r *Recorder) RecordExport(places int) {
	if r == nil {
		return
	}
	r.exports.Inc()
	r.exportedPlaces.Add(float64(places))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
