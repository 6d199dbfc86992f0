// Package metrics provides Prometheus instrumentation for the wastepredict
// service.
//
// Metrics exposed:
//   - wastepredict_training_seconds: Histogram of simulated training duration by model
//   - wastepredict_models_trained: Gauge of currently trained models
//   - wastepredict_predictions_total: Counter of predictions by model
//   - wastepredict_predicted_tons: Gauge of the last prediction by model
//   - wastepredict_dataset_records: Gauge of records in the current dataset
//   - wastepredict_errors_total: Counter of errors by component and reason
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	TrainingSeconds  *prometheus.HistogramVec
	ModelsTrained    prometheus.Gauge
	PredictionsTotal *prometheus.CounterVec
	PredictedTons    *prometheus.GaugeVec
	DatasetRecords   prometheus.Gauge
	ErrorsTotal      *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg registers
// with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		TrainingSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wastepredict_training_seconds",
			Help:    "Duration of simulated training runs",
			Buckets: []float64{0.5, 1, 1.5, 2, 3, 5, 10},
		}, []string{"model"}),

		ModelsTrained: f.NewGauge(prometheus.GaugeOpts{
			Name: "wastepredict_models_trained",
			Help: "Number of pseudo-models currently trained",
		}),

		PredictionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wastepredict_predictions_total",
			Help: "Total number of predictions by model",
		}, []string{"model"}),

		PredictedTons: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wastepredict_predicted_tons",
			Help: "Last predicted monthly waste in tons by model",
		}, []string{"model"}),

		DatasetRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "wastepredict_dataset_records",
			Help: "Number of records in the current dataset",
		}),

		ErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wastepredict_errors_total",
			Help: "Total number of errors by component and reason",
		}, []string{"component", "reason"}),
	}
}

// RecordTraining records a completed training run.
func (m *Metrics) RecordTraining(model string, seconds float64) {
	m.TrainingSeconds.WithLabelValues(model).Observe(seconds)
}

// SetModelsTrained sets the trained model count.
func (m *Metrics) SetModelsTrained(n int) {
	m.ModelsTrained.Set(float64(n))
}

// RecordPrediction counts a prediction and remembers its value.
func (m *Metrics) RecordPrediction(model string, tons float64) {
	m.PredictionsTotal.WithLabelValues(model).Inc()
	m.PredictedTons.WithLabelValues(model).Set(tons)
}

// SetDatasetRecords sets the current dataset size.
func (m *Metrics) SetDatasetRecords(n int) {
	m.DatasetRecords.Set(float64(n))
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, reason string) {
	m.ErrorsTotal.WithLabelValues(component, reason).Inc()
}
