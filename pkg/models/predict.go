package models

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// Inputs are the feature values a prediction is computed from.
type Inputs map[dataset.Feature]float64

// RequiredFeatures must be present in Inputs.
var RequiredFeatures = []dataset.Feature{
	dataset.Population,
	dataset.Income,
	dataset.Rainfall,
	dataset.Temperature,
	dataset.Trucks,
	dataset.Recycling,
}

// DefaultInputs returns the form defaults of the prediction panel.
func DefaultInputs() Inputs {
	return Inputs{
		dataset.Population:  8500,
		dataset.Income:      25000,
		dataset.UrbanArea:   280,
		dataset.Rainfall:    150,
		dataset.Temperature: 28,
		dataset.Trucks:      45,
		dataset.Recycling:   18,
	}
}

// InputsFromRecord builds Inputs from the features of a dataset record.
func InputsFromRecord(r dataset.MonthlyRecord) Inputs {
	in := make(Inputs, len(dataset.Features))
	for _, f := range dataset.Features {
		in[f] = r.Value(f)
	}
	return in
}

// Validate checks that every required feature is present and finite.
func (in Inputs) Validate() error {
	for _, f := range RequiredFeatures {
		v, ok := in[f]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrMissingField, f)
		}
	}
	return nil
}

// Source supplies uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// lockedSource serializes access to a Source that is not goroutine-safe.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Predict evaluates the formula of kind k, rounded to whole tons and clamped
// to [MinTons, MaxTons]. A nil rng uses the process-wide random source.
func Predict(k Kind, in Inputs, rng Source) (float64, error) {
	c, ok := coefficients[k]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownModel, int(k))
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if rng == nil {
		rng = globalSource{}
	}

	tons := c.Baseline
	for _, f := range RequiredFeatures {
		tons += c.Weights[f] * (in[f] - Centers[f])
	}
	tons += (rng.Float64()*2 - 1) * c.Noise

	return Clamp(math.Round(tons)), nil
}

// Clamp bounds tons to [MinTons, MaxTons]. NaN, which arises when finite
// inputs overflow into terms of opposite infinite sign, maps to MinTons.
func Clamp(tons float64) float64 {
	if math.IsNaN(tons) {
		return MinTons
	}
	return math.Max(MinTons, math.Min(MaxTons, tons))
}
