// Package stats computes descriptive statistics and feature correlations over
// a waste dataset.
//
// Summarize returns arithmetic means and the waste extrema; Correlate returns
// Pearson's r of each feature against the waste column. Both fail with
// ErrEmptyDataset when given no records.
//
// Zero-variance policy: Pearson's r is undefined when either column is
// constant (this includes every single-record dataset). Correlate reports 0
// for such features instead of NaN.
package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// ErrEmptyDataset is returned when statistics are requested on no data.
var ErrEmptyDataset = errors.New("empty dataset")

// Summary holds aggregate statistics of a dataset.
type Summary struct {
	AvgWaste       float64 `json:"avgWaste"`
	MinWaste       float64 `json:"minWaste"`
	MaxWaste       float64 `json:"maxWaste"`
	WasteRange     float64 `json:"wasteRange"`
	StartYear      int     `json:"startYear"`
	EndYear        int     `json:"endYear"`
	TotalRecords   int     `json:"totalRecords"`
	TimeSpan       string  `json:"timeSpan"`
	AvgPopulation  float64 `json:"avgPopulation"`
	AvgIncome      float64 `json:"avgIncome"`
	AvgRainfall    float64 `json:"avgRainfall"`
	AvgTemperature float64 `json:"avgTemperature"`
}

// Summarize computes the Summary of ds.
func Summarize(ds dataset.Dataset) (Summary, error) {
	if ds.Len() == 0 {
		return Summary{}, ErrEmptyDataset
	}

	waste := ds.Waste()
	minWaste, maxWaste := floats.Min(waste), floats.Max(waste)
	first, last := ds.At(0), ds.At(ds.Len()-1)

	return Summary{
		AvgWaste:       stat.Mean(waste, nil),
		MinWaste:       minWaste,
		MaxWaste:       maxWaste,
		WasteRange:     maxWaste - minWaste,
		StartYear:      first.Year,
		EndYear:        last.Year,
		TotalRecords:   ds.Len(),
		TimeSpan:       fmt.Sprintf("%d-%d", first.Year, last.Year),
		AvgPopulation:  stat.Mean(ds.Column(dataset.Population), nil),
		AvgIncome:      stat.Mean(ds.Column(dataset.Income), nil),
		AvgRainfall:    stat.Mean(ds.Column(dataset.Rainfall), nil),
		AvgTemperature: stat.Mean(ds.Column(dataset.Temperature), nil),
	}, nil
}
