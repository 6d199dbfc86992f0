package models

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// fixedSource always returns v.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "randomForest", want: RandomForest},
		{in: "rf", want: RandomForest},
		{in: "LinearRegression", want: LinearRegression},
		{in: "lr", want: LinearRegression},
		{in: "xgBoost", want: XGBoost},
		{in: " XGB ", want: XGBoost},
		{in: "svm", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownModel) {
					t.Errorf("error = %v, want ErrUnknownModel", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if got := XGBoost.String(); got != "xgBoost" {
		t.Errorf("String() = %q, want xgBoost", got)
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("String() = %q, want Kind(42)", got)
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", k, err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s) error = %v", b, err)
		}
		if got != k {
			t.Errorf("round trip = %v, want %v", got, k)
		}
	}
	if _, err := Kind(0).MarshalText(); err == nil {
		t.Error("MarshalText(0) should fail")
	}
}

func TestPredict_AtCenters(t *testing.T) {
	// A source of 0.5 yields zero jitter, so predictions at the centers equal
	// the baseline.
	tests := []struct {
		kind Kind
		want float64
	}{
		{RandomForest, 785},
		{LinearRegression, 750},
		{XGBoost, 790},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := Predict(tt.kind, DefaultInputs(), fixedSource(0.5))
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Predict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredict_Formula(t *testing.T) {
	in := DefaultInputs()
	in[dataset.Population] = 9500 // +1000 * 0.025 = +25
	in[dataset.Rainfall] = 250    // +100 * -0.12 = -12

	got, err := Predict(RandomForest, in, fixedSource(0.5))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got != 798 {
		t.Errorf("Predict() = %v, want 798", got)
	}
}

func TestPredict_NoiseBounded(t *testing.T) {
	for _, k := range Kinds {
		c := k.Coefficients()
		lo, err := Predict(k, DefaultInputs(), fixedSource(0))
		if err != nil {
			t.Fatal(err)
		}
		hi, err := Predict(k, DefaultInputs(), fixedSource(0.999999))
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(lo-(c.Baseline-c.Noise)) > 0.5 {
			t.Errorf("%v: low = %v, want ~%v", k, lo, c.Baseline-c.Noise)
		}
		if math.Abs(hi-(c.Baseline+c.Noise)) > 0.5 {
			t.Errorf("%v: high = %v, want ~%v", k, hi, c.Baseline+c.Noise)
		}
	}
}

func TestPredict_Clamp(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	extremes := []float64{-1e12, -1e6, 0, 1e6, 1e12, math.MaxFloat64 / 1e6}

	for _, k := range Kinds {
		for _, f := range RequiredFeatures {
			for _, v := range extremes {
				in := DefaultInputs()
				in[f] = v
				got, err := Predict(k, in, rng)
				if err != nil {
					t.Fatalf("Predict(%v, %s=%v) error = %v", k, f, v, err)
				}
				if math.IsNaN(got) || got < MinTons || got > MaxTons {
					t.Errorf("Predict(%v, %s=%v) = %v, outside [%v, %v]", k, f, v, got, MinTons, MaxTons)
				}
			}
		}
	}
}

func TestPredict_ClampOverflow(t *testing.T) {
	// Terms of opposite sign overflow to +Inf and -Inf, and their sum is NaN.
	tests := []struct {
		name string
		in   map[dataset.Feature]float64
	}{
		{
			name: "temperature and recycling",
			in:   map[dataset.Feature]float64{dataset.Temperature: -1e308, dataset.Recycling: -1.3e308},
		},
		{
			name: "population and rainfall",
			in:   map[dataset.Feature]float64{dataset.Population: math.MaxFloat64, dataset.Rainfall: math.MaxFloat64},
		},
		{
			name: "all extreme",
			in: map[dataset.Feature]float64{
				dataset.Population:  math.MaxFloat64,
				dataset.Income:      -math.MaxFloat64,
				dataset.Temperature: math.MaxFloat64,
				dataset.Rainfall:    math.MaxFloat64,
				dataset.Trucks:      -math.MaxFloat64,
				dataset.Recycling:   -math.MaxFloat64,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultInputs()
			for f, v := range tt.in {
				in[f] = v
			}
			for _, k := range Kinds {
				got, err := Predict(k, in, fixedSource(0.5))
				if err != nil {
					t.Fatalf("Predict(%v) error = %v", k, err)
				}
				if math.IsNaN(got) || got < MinTons || got > MaxTons {
					t.Errorf("Predict(%v) = %v, outside [%v, %v]", k, got, MinTons, MaxTons)
				}
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: 750, want: 750},
		{in: 10, want: MinTons},
		{in: 5000, want: MaxTons},
		{in: math.Inf(1), want: MaxTons},
		{in: math.Inf(-1), want: MinTons},
		{in: math.NaN(), want: MinTons},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPredict_MissingField(t *testing.T) {
	for _, f := range RequiredFeatures {
		t.Run(string(f), func(t *testing.T) {
			in := DefaultInputs()
			delete(in, f)
			_, err := Predict(RandomForest, in, nil)
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("error = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestPredict_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		in := DefaultInputs()
		in[dataset.Income] = v
		if _, err := Predict(XGBoost, in, nil); !errors.Is(err, ErrMissingField) {
			t.Errorf("income=%v: error = %v, want ErrMissingField", v, err)
		}
	}
}

func TestPredict_UrbanAreaOptional(t *testing.T) {
	in := DefaultInputs()
	delete(in, dataset.UrbanArea)
	if _, err := Predict(LinearRegression, in, nil); err != nil {
		t.Errorf("Predict() without urbanArea error = %v", err)
	}
}

func TestPredict_UnknownKind(t *testing.T) {
	if _, err := Predict(Kind(9), DefaultInputs(), nil); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("error = %v, want ErrUnknownModel", err)
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		mape      float64
		want      float64
		wantClass string
	}{
		{mape: 3, want: 97, wantClass: "high"},
		{mape: 5, want: 95, wantClass: "medium"},
		{mape: 9.5, want: 90.5, wantClass: "medium"},
		{mape: 10, want: 90, wantClass: "low"},
		{mape: 120, want: 0, wantClass: "low"},
	}
	for _, tt := range tests {
		got := Accuracy(tt.mape)
		if got != tt.want {
			t.Errorf("Accuracy(%v) = %v, want %v", tt.mape, got, tt.want)
		}
		if class := AccuracyClass(got); class != tt.wantClass {
			t.Errorf("AccuracyClass(%v) = %q, want %q", got, class, tt.wantClass)
		}
	}
}
