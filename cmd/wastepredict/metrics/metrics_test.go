package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordPrediction("randomForest", 790)
	m.RecordPrediction("randomForest", 801)
	m.RecordError("train", "canceled")
	m.SetDatasetRecords(144)
	m.SetModelsTrained(2)
	m.RecordTraining("xgBoost", 1.5)

	if got := testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("randomForest")); got != 2 {
		t.Errorf("predictions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PredictedTons.WithLabelValues("randomForest")); got != 801 {
		t.Errorf("predicted tons = %v, want 801", got)
	}
	if got := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("train", "canceled")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DatasetRecords); got != 144 {
		t.Errorf("dataset records = %v, want 144", got)
	}
	if got := testutil.ToFloat64(m.ModelsTrained); got != 2 {
		t.Errorf("models trained = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.TrainingSeconds); got != 1 {
		t.Errorf("training series = %d, want 1", got)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Each registry gets its own collectors, so repeated construction in
	// tests must not panic on duplicate registration.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
