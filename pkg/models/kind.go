// Package models provides the WastePredict pseudo-models.
//
// None of these models learn anything. Each Kind is a fixed linear formula
// over the input features with uniform random jitter, clamped to the demo
// range of [MinTons, MaxTons]:
//
//	tons = baseline + Σ weight_f * (input_f - center_f) + U(-noise, noise)
//
// "Training" is a timer: after a configurable delay the Trainer marks the
// kind as trained and records error metrics sampled from a bounded range per
// kind. The ranges only signal the relative quality each kind is meant to
// portray; they are not computed from residuals.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

var (
	// ErrMissingField is returned when a required prediction input is absent.
	ErrMissingField = errors.New("missing field")

	// ErrUntrainedModel is returned when predicting before training completed.
	ErrUntrainedModel = errors.New("untrained model")

	// ErrUnknownModel is returned for an unrecognized model kind.
	ErrUnknownModel = errors.New("unknown model")
)

const (
	MinTons = 600.0
	MaxTons = 1000.0
)

// Kind identifies a pseudo-model.
type Kind int

const (
	RandomForest Kind = iota + 1
	LinearRegression
	XGBoost
)

// Kinds lists every pseudo-model in display order.
var Kinds = []Kind{RandomForest, LinearRegression, XGBoost}

// Centers are the reference input values the weights are applied around.
var Centers = map[dataset.Feature]float64{
	dataset.Population:  8500,
	dataset.Income:      25000,
	dataset.Rainfall:    150,
	dataset.Temperature: 28,
	dataset.Trucks:      45,
	dataset.Recycling:   18,
}

// Range is a uniform interval [Min, Min+Span).
type Range struct {
	Min  float64
	Span float64
}

// MetricRanges bound the fabricated training metrics of a kind.
type MetricRanges struct {
	RMSE Range
	MAE  Range
	MAPE Range
}

// Coefficients is the fixed table behind a pseudo-model.
type Coefficients struct {
	Name     string
	Display  string
	Prefix   string
	Baseline float64
	Weights  map[dataset.Feature]float64
	Noise    float64
	Ranges   MetricRanges
}

var coefficients = map[Kind]Coefficients{
	RandomForest: {
		Name:     "randomForest",
		Display:  "Random Forest",
		Prefix:   "rf",
		Baseline: 785,
		Weights: map[dataset.Feature]float64{
			dataset.Population:  0.025,
			dataset.Income:      0.00015,
			dataset.Rainfall:    -0.12,
			dataset.Temperature: 2.5,
			dataset.Trucks:      0.3,
			dataset.Recycling:   -1.2,
		},
		Noise: 15,
		Ranges: MetricRanges{
			RMSE: Range{25, 10},
			MAE:  Range{20, 8},
			MAPE: Range{3.2, 0.8},
		},
	},
	LinearRegression: {
		Name:     "linearRegression",
		Display:  "Linear Regression",
		Prefix:   "lr",
		Baseline: 750,
		Weights: map[dataset.Feature]float64{
			dataset.Population:  0.03,
			dataset.Income:      0.0002,
			dataset.Rainfall:    -0.15,
			dataset.Temperature: 3,
			dataset.Trucks:      0.4,
			dataset.Recycling:   -1.5,
		},
		Noise: 20,
		Ranges: MetricRanges{
			RMSE: Range{35, 15},
			MAE:  Range{28, 12},
			MAPE: Range{4.5, 1.5},
		},
	},
	XGBoost: {
		Name:     "xgBoost",
		Display:  "XGBoost",
		Prefix:   "xgb",
		Baseline: 790,
		Weights: map[dataset.Feature]float64{
			dataset.Population:  0.022,
			dataset.Income:      0.00012,
			dataset.Rainfall:    -0.11,
			dataset.Temperature: 2.2,
			dataset.Trucks:      0.25,
			dataset.Recycling:   -1.1,
		},
		Noise: 12.5,
		Ranges: MetricRanges{
			RMSE: Range{22, 8},
			MAE:  Range{18, 7},
			MAPE: Range{2.8, 0.7},
		},
	},
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := coefficients[k]
	return ok
}

// Coefficients returns the formula table of k.
func (k Kind) Coefficients() Coefficients {
	return coefficients[k]
}

// String returns the canonical name, e.g. "randomForest".
func (k Kind) String() string {
	if c, ok := coefficients[k]; ok {
		return c.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts canonical names ("xgBoost") and prefixes ("xgb"),
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		c := coefficients[k]
		if s == strings.ToLower(c.Name) || s == c.Prefix {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// MarshalText implements encoding.TextMarshaler so kinds work as JSON map keys.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
