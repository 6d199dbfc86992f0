package models

import (
	"math"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// FeatureImportance returns the fixed importance scores shown alongside the
// random forest pseudo-model.
func FeatureImportance() map[dataset.Feature]float64 {
	return map[dataset.Feature]float64{
		dataset.Population:  0.85,
		dataset.Income:      0.72,
		dataset.Rainfall:    0.65,
		dataset.Temperature: 0.58,
		dataset.Trucks:      0.42,
		dataset.Recycling:   0.35,
	}
}

// Accuracy converts a MAPE percentage to the displayed accuracy, max(0, 100-mape).
func Accuracy(mape float64) float64 {
	return math.Max(0, 100-mape)
}

// AccuracyClass buckets an accuracy percentage for display.
func AccuracyClass(accuracy float64) string {
	switch {
	case accuracy > 95:
		return "high"
	case accuracy > 90:
		return "medium"
	default:
		return "low"
	}
}
