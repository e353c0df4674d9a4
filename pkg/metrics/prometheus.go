package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	groupsEvaluated *prometheus.CounterVec
	groupsFailed    *prometheus.CounterVec
	pointsEmitted   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	gridTimes       *prometheus.GaugeVec
	gridDeltas      *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		groupsEvaluated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsurf_groups_evaluated_total",
				Help: "Total number of surface groups evaluated successfully",
			},
			[]string{"asset"},
		),
		groupsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsurf_groups_failed_total",
				Help: "Total number of surface groups whose evaluation failed",
			},
			[]string{"asset"},
		),
		pointsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsurf_points_emitted_total",
				Help: "Total number of interpolated surface points emitted",
			},
			[]string{"asset"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volsurf_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		gridTimes: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volsurf_grid_time_levels",
				Help: "Time-axis size of the most recent grid per asset",
			},
			[]string{"asset"},
		),
		gridDeltas: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volsurf_grid_delta_levels",
				Help: "Delta-axis size of the most recent grid per asset",
			},
			[]string{"asset"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "volsurf_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordGroupEvaluated records one successfully evaluated group.
func (r *Recorder) RecordGroupEvaluated(asset string) {
	r.groupsEvaluated.WithLabelValues(asset).Inc()
}

// RecordGroupFailed records one failed group.
func (r *Recorder) RecordGroupFailed(asset string) {
	r.groupsFailed.WithLabelValues(asset).Inc()
}

// RecordPointsEmitted records interpolated points emitted for an asset.
func (r *Recorder) RecordPointsEmitted(asset string, n int) {
	r.pointsEmitted.WithLabelValues(asset).Add(float64(n))
}

// RecordGridSize records the dimensions of the most recent grid per asset.
func (r *Recorder) RecordGridSize(asset string, times, deltas int) {
	r.gridTimes.WithLabelValues(asset).Set(float64(times))
	r.gridDeltas.WithLabelValues(asset).Set(float64(deltas))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
