package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adventurebag/shop/internal/catalog"
)

const namespace = "adventurebag"

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	builds     *prometheus.CounterVec
	items      *prometheus.GaugeVec
	skipped    *prometheus.CounterVec
	replaced   prometheus.Counter
	scanFailed prometheus.Counter
	coach      *prometheus.CounterVec
}

// New registers all collectors, plus Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "builds_total",
			Help:      "Catalog builds by mode (primary, fallback, upstream).",
		}, []string{"mode"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "items",
			Help:      "Items in the most recent catalog build by mode.",
		}, []string{"mode"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "variations_skipped_total",
			Help:      "Variations dropped because their base product is unknown.",
		}, []string{"reason"}),
		replaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "variations_replaced_total",
			Help:      "Variations replaced by a later record with the same image key.",
		}),
		scanFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "image_scan_failures_total",
			Help:      "Builds where the image directory could not be read.",
		}),
		coach: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "requests_total",
			Help:      "Coach config lookups by page and outcome.",
		}, []string{"page", "outcome"}),
	}

	reg.MustRegister(
		m.builds, m.items, m.skipped, m.replaced, m.scanFailed, m.coach,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveBuild implements catalog.Observer.
func (m *Metrics) ObserveBuild(mode string, items int, report catalog.Report) {
	m.builds.WithLabelValues(mode).Inc()
	m.items.WithLabelValues(mode).Set(float64(items))
	if report.UnknownBase > 0 {
		m.skipped.WithLabelValues("unknown_base").Add(float64(report.UnknownBase))
	}
	if report.Unresolved > 0 {
		m.skipped.WithLabelValues("unresolved").Add(float64(report.Unresolved))
	}
	if report.Replaced > 0 {
		m.replaced.Add(float64(report.Replaced))
	}
	if report.ScanFailed {
		m.scanFailed.Inc()
	}
}

// ObserveCoach implements coach.Observer.
func (m *Metrics) ObserveCoach(page, outcome string) {
	m.coach.WithLabelValues(page, outcome).Inc()
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
