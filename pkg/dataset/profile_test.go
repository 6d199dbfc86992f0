package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseProfile_OverridesDefaults(t *testing.T) {
	data := []byte(`
population:
  base: 9000
  growth: 0
waste:
  noise: 5
  weights:
    population: 0.05
`)

	p, err := ParseProfile(data)
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	if p.Population.Base != 9000 {
		t.Errorf("Population.Base = %v, want 9000", p.Population.Base)
	}
	if p.Population.Growth != 0 {
		t.Errorf("Population.Growth = %v, want 0", p.Population.Growth)
	}
	if p.Income.Base != DefaultProfile().Income.Base {
		t.Errorf("Income.Base = %v, want default %v", p.Income.Base, DefaultProfile().Income.Base)
	}
	if p.Waste.Noise != 5 {
		t.Errorf("Waste.Noise = %v, want 5", p.Waste.Noise)
	}
	if p.Waste.Weights[Population] != 0.05 {
		t.Errorf("Waste.Weights[population] = %v, want 0.05", p.Waste.Weights[Population])
	}
	if p.Waste.Weights[Rainfall] != -0.12 {
		t.Errorf("Waste.Weights[rainfall] = %v, want default -0.12", p.Waste.Weights[Rainfall])
	}
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "negative noise", data: "rainfall:\n  noise: -1\n"},
		{name: "bad peak month", data: "temperature:\n  peakMonth: 13\n"},
		{name: "max below min", data: "trucks:\n  min: 10\n  max: 5\n"},
		{name: "unknown weight", data: "waste:\n  weights:\n    waste: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.data))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ParseProfile() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestParseProfile_MalformedYAML(t *testing.T) {
	if _, err := ParseProfile([]byte("population: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("recycling:\n  base: 20\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Recycling.Base != 20 {
		t.Errorf("Recycling.Base = %v, want 20", p.Recycling.Base)
	}

	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
