package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeriesParams shapes one generated feature column.
//
// The value at month index i (0 = first generated month) is
//
//	Base + Growth*i/12 + Seasonal*cos(2π(month-PeakMonth)/12) + U(-Noise, Noise)
//
// then clamped to [Min, Max] when Max > Min.
type SeriesParams struct {
	Base      float64 `yaml:"base"`
	Growth    float64 `yaml:"growth"`
	Seasonal  float64 `yaml:"seasonal"`
	PeakMonth int     `yaml:"peakMonth"`
	Noise     float64 `yaml:"noise"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
}

// WasteParams is the fixed linear formula the waste column is derived from.
type WasteParams struct {
	Baseline float64             `yaml:"baseline"`
	Centers  map[Feature]float64 `yaml:"centers"`
	Weights  map[Feature]float64 `yaml:"weights"`
	Noise    float64             `yaml:"noise"`
}

// Profile holds all generator parameters.
type Profile struct {
	Population  SeriesParams `yaml:"population"`
	Income      SeriesParams `yaml:"income"`
	UrbanArea   SeriesParams `yaml:"urbanArea"`
	Rainfall    SeriesParams `yaml:"rainfall"`
	Temperature SeriesParams `yaml:"temperature"`
	Trucks      SeriesParams `yaml:"trucks"`
	Recycling   SeriesParams `yaml:"recycling"`
	Waste       WasteParams  `yaml:"waste"`
}

// DefaultProfile returns the parameters of the Davao City demo history.
func DefaultProfile() Profile {
	return Profile{
		Population:  SeriesParams{Base: 7200, Growth: 120, Noise: 25, Min: 0},
		Income:      SeriesParams{Base: 18000, Growth: 650, Seasonal: 400, PeakMonth: 12, Noise: 150},
		UrbanArea:   SeriesParams{Base: 240, Growth: 3.5, Noise: 0.5},
		Rainfall:    SeriesParams{Base: 150, Seasonal: 60, PeakMonth: 7, Noise: 25, Min: 0, Max: 600},
		Temperature: SeriesParams{Base: 27.8, Growth: 0.03, Seasonal: 1.2, PeakMonth: 4, Noise: 0.4},
		Trucks:      SeriesParams{Base: 34, Growth: 1, Noise: 1, Min: 1, Max: 200},
		Recycling:   SeriesParams{Base: 12, Growth: 0.6, Noise: 0.8, Min: 0, Max: 100},
		Waste: WasteParams{
			Baseline: 785,
			Centers: map[Feature]float64{
				Population:  8500,
				Income:      25000,
				Rainfall:    150,
				Temperature: 28,
				Trucks:      45,
				Recycling:   18,
			},
			Weights: map[Feature]float64{
				Population:  0.025,
				Income:      0.00015,
				Rainfall:    -0.12,
				Temperature: 2.5,
				Trucks:      0.3,
				Recycling:   -1.2,
			},
			Noise: 20,
		},
	}
}

// Series returns the parameters for feature f.
func (p Profile) Series(f Feature) SeriesParams {
	switch f {
	case Population:
		return p.Population
	case Income:
		return p.Income
	case UrbanArea:
		return p.UrbanArea
	case Rainfall:
		return p.Rainfall
	case Temperature:
		return p.Temperature
	case Trucks:
		return p.Trucks
	case Recycling:
		return p.Recycling
	}
	return SeriesParams{}
}

// Validate checks that the profile can drive a generator.
func (p Profile) Validate() error {
	for _, f := range Features {
		s := p.Series(f)
		if s.Noise < 0 {
			return fmt.Errorf("%w: %s noise must be >= 0", ErrInvalidArgument, f)
		}
		if s.PeakMonth < 0 || s.PeakMonth > 12 {
			return fmt.Errorf("%w: %s peakMonth must be 0-12", ErrInvalidArgument, f)
		}
		if s.Max != 0 && s.Max < s.Min {
			return fmt.Errorf("%w: %s max (%v) < min (%v)", ErrInvalidArgument, f, s.Max, s.Min)
		}
	}
	if p.Waste.Noise < 0 {
		return fmt.Errorf("%w: waste noise must be >= 0", ErrInvalidArgument)
	}
	for f := range p.Waste.Weights {
		if _, err := ParseFeature(string(f)); err != nil {
			return fmt.Errorf("waste weights: %w", err)
		}
	}
	return nil
}

// LoadProfile reads a YAML profile from path. Keys absent from the file keep
// their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile over DefaultProfile.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
