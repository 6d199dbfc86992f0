// Package dataset generates the synthetic monthly waste dataset used by
// WastePredict.
//
// A dataset is an ordered, immutable sequence of MonthlyRecord values. Each
// record carries the socio-economic and operational features of one month
// (population density, income, urban area, rainfall, temperature, collection
// trucks, recycling rate) plus the generated waste tonnage.
//
// The waste column is not ground truth. It is derived from the other fields
// of the same record through a fixed linear formula (see ExpectedWaste) plus
// bounded uniform noise, so the whole dataset is illustrative only.
//
// Example:
//
//	gen := dataset.NewGenerator(dataset.DefaultProfile(), 2013, nil)
//	ds, err := gen.Generate(dataset.DefaultMonths)
//	// ds.Len() == 144, ds.At(0) is January 2013
package dataset

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for bad generation parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// Feature names a predictor column of the dataset.
type Feature string

const (
	Population  Feature = "population"
	Income      Feature = "income"
	UrbanArea   Feature = "urbanArea"
	Rainfall    Feature = "rainfall"
	Temperature Feature = "temperature"
	Trucks      Feature = "trucks"
	Recycling   Feature = "recycling"
)

// Features lists every predictor column in export order.
var Features = []Feature{Population, Income, UrbanArea, Rainfall, Temperature, Trucks, Recycling}

// ParseFeature resolves a feature by its column name.
func ParseFeature(s string) (Feature, error) {
	for _, f := range Features {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown feature %q", ErrInvalidArgument, s)
}

// MonthlyRecord is one synthetic observation.
type MonthlyRecord struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Population  float64 `json:"population"`  // people per km²
	Income      float64 `json:"income"`      // average monthly household income
	UrbanArea   float64 `json:"urbanArea"`   // km²
	Rainfall    float64 `json:"rainfall"`    // mm
	Temperature float64 `json:"temperature"` // °C
	Trucks      int     `json:"trucks"`
	Recycling   float64 `json:"recycling"` // percent
	Waste       float64 `json:"waste"`     // tons
}

// Value returns the value of feature f for this record.
func (r MonthlyRecord) Value(f Feature) float64 {
	switch f {
	case Population:
		return r.Population
	case Income:
		return r.Income
	case UrbanArea:
		return r.UrbanArea
	case Rainfall:
		return r.Rainfall
	case Temperature:
		return r.Temperature
	case Trucks:
		return float64(r.Trucks)
	case Recycling:
		return r.Recycling
	}
	return 0
}

// Label formats the record period, e.g. "Jan 2013".
func (r MonthlyRecord) Label() string {
	return fmt.Sprintf("%s %d", MonthName(r.Month), r.Year)
}

// Before reports whether r precedes o chronologically.
func (r MonthlyRecord) Before(o MonthlyRecord) bool {
	if r.Year != o.Year {
		return r.Year < o.Year
	}
	return r.Month < o.Month
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthName returns the short English name of month m (1-12).
// Out-of-range values are formatted as numbers.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return fmt.Sprintf("%d", m)
	}
	return monthNames[m-1]
}

// Dataset is an ordered, read-only sequence of records.
// The zero value is an empty dataset.
type Dataset struct {
	records []MonthlyRecord
}

// New builds a Dataset from a copy of records.
func New(records []MonthlyRecord) Dataset {
	cp := make([]MonthlyRecord, len(records))
	copy(cp, records)
	return Dataset{records: cp}
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.records)
}

// At returns the i-th record. It panics if i is out of range.
func (d Dataset) At(i int) MonthlyRecord {
	return d.records[i]
}

// Records returns a copy of the records.
func (d Dataset) Records() []MonthlyRecord {
	cp := make([]MonthlyRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// Last returns the n most recent records as a new Dataset.
// If n exceeds the length, the whole dataset is returned.
func (d Dataset) Last(n int) Dataset {
	if n <= 0 {
		return Dataset{}
	}
	if n > len(d.records) {
		n = len(d.records)
	}
	return New(d.records[len(d.records)-n:])
}

// Column extracts the values of feature f in record order.
func (d Dataset) Column(f Feature) []float64 {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i] = r.Value(f)
	}
	return out
}

// Waste extracts the waste column in record order.
func (d Dataset) Waste() []float64 {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i] = r.Waste
	}
	return out
}
