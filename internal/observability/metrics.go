// Package observability provides Prometheus metrics for the analysis service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for analyses.
type Metrics struct {
	// Pipeline metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	StageFailures    *prometheus.CounterVec
	SamplesProcessed prometheus.Counter

	// Result gauges
	LastPeakSteps     prometheus.Gauge
	LastSpectralSteps prometheus.Gauge
	LastDistance      prometheus.Gauge

	// Archive metrics
	ArchiveWrites *prometheus.CounterVec
	MapCacheHits  *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "stridelog"
	}
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analyses_total",
			Help:      "Total number of analyses by status",
		}, []string{"status"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analysis_duration_seconds",
			Help:      "Time to analyze one pair of uploads",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Total number of failed stages by stage and error kind",
		}, []string{"stage", "kind"}),
		SamplesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "acceleration_samples_total",
			Help:      "Total number of acceleration samples filtered",
		}),

		LastPeakSteps: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "result",
			Name:      "last_peak_steps",
			Help:      "Step count from peak detection of the last analysis",
		}),
		LastSpectralSteps: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "result",
			Name:      "last_spectral_steps",
			Help:      "Step count from the dominant frequency of the last analysis",
		}),
		LastDistance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "result",
			Name:      "last_distance_meters",
			Help:      "GPS path length of the last analysis",
		}),

		ArchiveWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "writes_total",
			Help:      "Total number of archive writes by status",
		}, []string{"status"}),
		MapCacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "map_lookups_total",
			Help:      "Map lookups by source",
		}, []string{"source"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is registered on the default Prometheus registry.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordAnalysis records a finished analysis.
func (m *Metrics) RecordAnalysis(status string, seconds float64) {
	m.AnalysesTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(seconds)
}

// RecordStageFailure counts a failed stage.
func (m *Metrics) RecordStageFailure(stage, kind string) {
	m.StageFailures.WithLabelValues(stage, kind).Inc()
}

// RecordSteps updates the last-result gauges.
func (m *Metrics) RecordSteps(peak, spectral int, samples int) {
	m.LastPeakSteps.Set(float64(peak))
	m.LastSpectralSteps.Set(float64(spectral))
	m.SamplesProcessed.Add(float64(samples))
}

// RecordDistance updates the distance gauge.
func (m *Metrics) RecordDistance(meters float64) {
	m.LastDistance.Set(meters)
}

// RecordArchiveWrite counts an archive write.
func (m *Metrics) RecordArchiveWrite(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ArchiveWrites.WithLabelValues(status).Inc()
}

// RecordMapLookup counts where a map was served from.
func (m *Metrics) RecordMapLookup(source string) {
	m.MapCacheHits.WithLabelValues(source).Inc()
}
