package dataset

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func newTestGenerator(startYear int) *Generator {
	return NewGenerator(DefaultProfile(), startYear, rand.New(rand.NewPCG(1, 2)))
}

func TestGenerator_Generate_Count(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "one month", count: 1},
		{name: "one year", count: 12},
		{name: "default history", count: DefaultMonths},
		{name: "partial year", count: 17},
		{name: "zero", count: 0, wantErr: true},
		{name: "negative", count: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := newTestGenerator(DefaultStartYear).Generate(tt.count)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if ds.Len() != tt.count {
				t.Errorf("Len() = %d, want %d", ds.Len(), tt.count)
			}
		})
	}
}

func TestGenerator_Generate_InvalidStartYear(t *testing.T) {
	_, err := newTestGenerator(0).Generate(12)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestGenerator_Generate_TwelveMonths(t *testing.T) {
	ds, err := newTestGenerator(2020).Generate(12)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if r.Month != i+1 {
			t.Errorf("record %d: Month = %d, want %d", i, r.Month, i+1)
		}
		if r.Year != 2020 {
			t.Errorf("record %d: Year = %d, want 2020", i, r.Year)
		}
	}
}

func TestGenerator_Generate_Chronological(t *testing.T) {
	ds, err := newTestGenerator(DefaultStartYear).Generate(DefaultMonths)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i := 1; i < ds.Len(); i++ {
		prev, cur := ds.At(i-1), ds.At(i)
		if !prev.Before(cur) {
			t.Fatalf("record %d (%s) not after record %d (%s)", i, cur.Label(), i-1, prev.Label())
		}
	}

	last := ds.At(ds.Len() - 1)
	if last.Year != 2024 || last.Month != 12 {
		t.Errorf("last record = %s, want Dec 2024", last.Label())
	}
}

func TestGenerator_Generate_WasteWithinNoise(t *testing.T) {
	profile := DefaultProfile()
	ds, err := NewGenerator(profile, DefaultStartYear, rand.New(rand.NewPCG(7, 7))).Generate(DefaultMonths)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	bound := profile.Waste.Noise + 0.05
	for i, r := range ds.Records() {
		diff := math.Abs(r.Waste - ExpectedWaste(r, profile))
		if diff > bound {
			t.Errorf("record %d: |waste - expected| = %.3f, want <= %.3f", i, diff, bound)
		}
	}
}

func TestGenerator_Generate_Ranges(t *testing.T) {
	ds, err := newTestGenerator(DefaultStartYear).Generate(DefaultMonths)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i, r := range ds.Records() {
		if r.Rainfall < 0 {
			t.Errorf("record %d: Rainfall = %v, want >= 0", i, r.Rainfall)
		}
		if r.Recycling < 0 || r.Recycling > 100 {
			t.Errorf("record %d: Recycling = %v, want 0-100", i, r.Recycling)
		}
		if r.Trucks < 1 {
			t.Errorf("record %d: Trucks = %d, want >= 1", i, r.Trucks)
		}
		if r.Waste < 600 || r.Waste > 1000 {
			t.Errorf("record %d: Waste = %v, outside demo range", i, r.Waste)
		}
	}
}

func TestGenerator_NoNoiseIsDeterministic(t *testing.T) {
	profile := DefaultProfile()
	for _, f := range Features {
		s := profile.Series(f)
		s.Noise = 0
		setSeries(&profile, f, s)
	}
	profile.Waste.Noise = 0

	a, err := NewGenerator(profile, 2013, nil).Generate(24)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := NewGenerator(profile, 2013, nil).Generate(24)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Fatalf("record %d differs: %+v vs %+v", i, a.At(i), b.At(i))
		}
	}
}

func setSeries(p *Profile, f Feature, s SeriesParams) {
	switch f {
	case Population:
		p.Population = s
	case Income:
		p.Income = s
	case UrbanArea:
		p.UrbanArea = s
	case Rainfall:
		p.Rainfall = s
	case Temperature:
		p.Temperature = s
	case Trucks:
		p.Trucks = s
	case Recycling:
		p.Recycling = s
	}
}

func TestDataset_Last(t *testing.T) {
	ds, err := newTestGenerator(2013).Generate(36)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{name: "last year", n: 12, wantLen: 12},
		{name: "more than available", n: 100, wantLen: 36},
		{name: "zero", n: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ds.Last(tt.n)
			if got.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", got.Len(), tt.wantLen)
			}
			if got.Len() > 0 && got.At(got.Len()-1) != ds.At(ds.Len()-1) {
				t.Error("Last() should end with the most recent record")
			}
		})
	}
}

func TestDataset_RecordsIsCopy(t *testing.T) {
	ds, err := newTestGenerator(2013).Generate(3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	records := ds.Records()
	records[0].Waste = -1

	if ds.At(0).Waste == -1 {
		t.Error("mutating Records() result changed the dataset")
	}
}

func TestDataset_Column(t *testing.T) {
	ds := New([]MonthlyRecord{
		{Month: 1, Year: 2013, Trucks: 40, Rainfall: 120.5, Waste: 700},
		{Month: 2, Year: 2013, Trucks: 42, Rainfall: 98, Waste: 710},
	})

	trucks := ds.Column(Trucks)
	if trucks[0] != 40 || trucks[1] != 42 {
		t.Errorf("Column(Trucks) = %v, want [40 42]", trucks)
	}
	rain := ds.Column(Rainfall)
	if rain[0] != 120.5 || rain[1] != 98 {
		t.Errorf("Column(Rainfall) = %v, want [120.5 98]", rain)
	}
	waste := ds.Waste()
	if waste[0] != 700 || waste[1] != 710 {
		t.Errorf("Waste() = %v, want [700 710]", waste)
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{1, "Jan"},
		{12, "Dec"},
		{13, "13"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := MonthName(tt.month); got != tt.want {
			t.Errorf("MonthName(%d) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestParseFeature(t *testing.T) {
	if f, err := ParseFeature("urbanArea"); err != nil || f != UrbanArea {
		t.Errorf("ParseFeature(urbanArea) = %q, %v", f, err)
	}
	if _, err := ParseFeature("waste"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseFeature(waste) error = %v, want ErrInvalidArgument", err)
	}
}
