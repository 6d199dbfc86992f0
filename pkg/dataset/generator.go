package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	// DefaultStartYear is the first year of the demo history.
	DefaultStartYear = 2013

	// DefaultMonths spans 2013-2024.
	DefaultMonths = 144
)

// Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Generator produces synthetic datasets from a Profile.
// A Generator is not safe for concurrent use unless its Source is.
type Generator struct {
	profile   Profile
	startYear int
	rng       Source
}

// NewGenerator creates a generator starting at January of startYear.
// A nil rng uses the process-wide random source.
func NewGenerator(profile Profile, startYear int, rng Source) *Generator {
	if rng == nil {
		rng = globalSource{}
	}
	return &Generator{
		profile:   profile,
		startYear: startYear,
		rng:       rng,
	}
}

// Profile returns the generator parameters.
func (g *Generator) Profile() Profile {
	return g.profile
}

// StartYear returns the year of the first generated record.
func (g *Generator) StartYear() int {
	return g.startYear
}

// Generate produces count consecutive monthly records.
func (g *Generator) Generate(count int) (Dataset, error) {
	if count <= 0 {
		return Dataset{}, fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidArgument, count)
	}
	if g.startYear <= 0 {
		return Dataset{}, fmt.Errorf("%w: start year must be > 0, got %d", ErrInvalidArgument, g.startYear)
	}

	records := make([]MonthlyRecord, count)
	for i := range records {
		month := i%12 + 1
		r := MonthlyRecord{
			Month:       month,
			Year:        g.startYear + i/12,
			Population:  math.Round(g.series(Population, i, month)),
			Income:      math.Round(g.series(Income, i, month)),
			UrbanArea:   round1(g.series(UrbanArea, i, month)),
			Rainfall:    round1(g.series(Rainfall, i, month)),
			Temperature: round1(g.series(Temperature, i, month)),
			Trucks:      int(math.Round(g.series(Trucks, i, month))),
			Recycling:   round1(g.series(Recycling, i, month)),
		}
		r.Waste = round1(ExpectedWaste(r, g.profile) + g.jitter(g.profile.Waste.Noise))
		records[i] = r
	}

	return Dataset{records: records}, nil
}

// ExpectedWaste evaluates the noise-free waste formula for r:
//
//	baseline + Σ weight_f * (value_f - center_f)
func ExpectedWaste(r MonthlyRecord, p Profile) float64 {
	w := p.Waste.Baseline
	for _, f := range Features {
		weight, ok := p.Waste.Weights[f]
		if !ok {
			continue
		}
		w += weight * (r.Value(f) - p.Waste.Centers[f])
	}
	return w
}

func (g *Generator) series(f Feature, index, month int) float64 {
	s := g.profile.Series(f)
	v := s.Base + s.Growth*float64(index)/12
	if s.Seasonal != 0 {
		v += s.Seasonal * math.Cos(2*math.Pi*float64(month-s.PeakMonth)/12)
	}
	v += g.jitter(s.Noise)
	if s.Max > s.Min {
		v = math.Max(s.Min, math.Min(s.Max, v))
	}
	return v
}

// jitter returns a uniform value in [-amp, amp).
func (g *Generator) jitter(amp float64) float64 {
	if amp == 0 {
		return 0
	}
	return (g.rng.Float64()*2 - 1) * amp
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
