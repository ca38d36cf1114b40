// Package metrics exposes Prometheus counters for the site.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "metrobowling"

// Metrics groups the site's collectors.
type Metrics struct {
	Rolls      prometheus.Counter
	Strikes    prometheus.Counter
	Pins       prometheus.Histogram
	Selections *prometheus.CounterVec
	registry   *prometheus.Registry
}

// New registers the collectors on a fresh registry. views reports the number
// of live visitor sessions and may be nil.
func New(views func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Rolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_total",
			Help:      "Mini-game rolls.",
		}),
		Strikes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strikes_total",
			Help:      "Mini-game rolls that knocked down every pin.",
		}),
		Pins: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "roll_pins",
			Help:      "Pins knocked down per roll.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_selections_total",
			Help:      "Navigation clicks by section.",
		}, []string{"section"}),
		registry: reg,
	}
	reg.MustRegister(m.Rolls, m.Strikes, m.Pins, m.Selections)
	if views != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "views",
			Help:      "Live visitor sessions.",
		}, func() float64 { return float64(views()) }))
	}
	return m
}

// ObserveRoll records one roll.
func (m *Metrics) ObserveRoll(pins int, strike bool) {
	if m == nil {
		return
	}
	m.Rolls.Inc()
	m.Pins.Observe(float64(pins))
	if strike {
		m.Strikes.Inc()
	}
}

// ObserveSelection records one navigation click.
func (m *Metrics) ObserveSelection(section string) {
	if m == nil {
		return
	}
	m.Selections.WithLabelValues(section).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
