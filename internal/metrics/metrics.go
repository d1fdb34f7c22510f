// Package metrics exposes Prometheus instrumentation for the scanner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the scanner's Prometheus collectors.
type Metrics struct {
	ScansTotal       *prometheus.CounterVec
	ScanDuration     prometheus.Histogram
	SignalsCollected prometheus.Counter
	AlertsSent       *prometheus.CounterVec
}

// New registers the collectors against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockradar",
			Name:      "scans_total",
			Help:      "Completed ticker scans by outcome.",
		}, []string{"outcome"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stockradar",
			Name:      "scan_duration_seconds",
			Help:      "Wall time of a single ticker scan.",
			Buckets:   prometheus.DefBuckets,
		}),
		SignalsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockradar",
			Name:      "signals_collected_total",
			Help:      "Signals handed to the scoring core.",
		}),
		AlertsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockradar",
			Name:      "alerts_sent_total",
			Help:      "Webhook alerts by delivery outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.ScansTotal, m.ScanDuration, m.SignalsCollected, m.AlertsSent)
	return m
}

// ObserveScan records one finished scan.
func (m *Metrics) ObserveScan(outcome string, seconds float64, signals int) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(outcome).Inc()
	m.ScanDuration.Observe(seconds)
	m.SignalsCollected.Add(float64(signals))
}

// ObserveAlert records one webhook delivery attempt outcome.
func (m *Metrics) ObserveAlert(outcome string) {
	if m == nil {
		return
	}
	m.AlertsSent.WithLabelValues(outcome).Inc()
}
