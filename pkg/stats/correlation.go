package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// Correlations maps each feature to its Pearson coefficient against waste.
type Correlations map[dataset.Feature]float64

// Coefficient is one entry of a sorted correlation table.
type Coefficient struct {
	Feature dataset.Feature `json:"feature"`
	R       float64         `json:"r"`
}

// Correlate computes Pearson's r between every feature column and waste.
// Constant columns yield 0; results are clamped to [-1, 1].
func Correlate(ds dataset.Dataset) (Correlations, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	out := make(Correlations, len(dataset.Features))
	waste := ds.Waste()
	wasteConstant := isConstant(waste)

	for _, f := range dataset.Features {
		if wasteConstant {
			out[f] = 0
			continue
		}
		out[f] = Pearson(ds.Column(f), waste)
	}

	return out, nil
}

// Pearson returns the sample correlation of x and y. It returns 0 when the
// inputs differ in length, have fewer than two points, or either is constant.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if isConstant(x) || isConstant(y) {
		return 0
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func isConstant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

// Sorted returns the coefficients ordered by descending |r|, ties broken by
// feature name.
func (c Correlations) Sorted() []Coefficient {
	out := make([]Coefficient, 0, len(c))
	for f, r := range c {
		out = append(out, Coefficient{Feature: f, R: r})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].R), math.Abs(out[j].R)
		if ai != aj {
			return ai > aj
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}
