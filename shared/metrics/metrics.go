// Package metrics exposes Prometheus collectors for sweep runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thirukguru/aws-wastesweep/model"
)

const namespace = "wastesweep"

// Recorder records run and region outcomes. A nil *Recorder is a no-op.
type Recorder struct {
	regionScans    *prometheus.CounterVec
	regionDuration *prometheus.HistogramVec
	findings       *prometheus.CounterVec
	savings        prometheus.Gauge
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		regionScans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "region",
				Name:      "scans_total",
				Help:      "Total number of region scans by outcome",
			},
			[]string{"region", "outcome"},
		),
		regionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "region",
				Name:      "scan_duration_seconds",
				Help:      "Duration of a single region scan in seconds",
				Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		findings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "findings",
				Name:      "total",
				Help:      "Total number of waste findings by kind",
			},
			[]string{"kind"},
		),
		savings: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "potential_monthly_savings_usd",
				Help:      "Estimated monthly savings reported by the last run",
			},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "total",
				Help:      "Total number of runs by status",
			},
			[]string{"status"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "duration_seconds",
				Help:      "Duration of a full run in seconds",
				Buckets:   []float64{5, 15, 30, 60, 120, 300, 600},
			},
		),
	}
}

// ObserveRegion records one region result and its findings.
func (r *Recorder) ObserveRegion(result model.RegionResult) {
	if r == nil {
		return
	}

	outcome := "success"
	if result.Failed() {
		outcome = "failure"
	}
	r.regionScans.WithLabelValues(result.Region, outcome).Inc()
	r.regionDuration.WithLabelValues(outcome).Observe(result.Duration.Seconds())

	for _, f := range result.Findings {
		r.findings.WithLabelValues(string(f.Kind)).Inc()
	}
}

// ObserveRun records the final status of a run. status is "error" for fatal runs.
func (r *Recorder) ObserveRun(status string, savings float64, duration time.Duration) {
	if r == nil {
		return
	}

	r.runs.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration.Seconds())
	if status != "error" {
		r.savings.Set(savings)
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
