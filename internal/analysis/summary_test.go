package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dedx/internal/stopping"
)

func curve(t *testing.T, model string) []stopping.Point {
	t.Helper()
	eng, err := stopping.NewWithModel(stopping.Proton, stopping.Water, model)
	if err != nil {
		t.Fatal(err)
	}
	energies, err := stopping.ReferenceGrid().Generate()
	if err != nil {
		t.Fatal(err)
	}
	points, err := eng.ComputeBatch(energies)
	if err != nil {
		t.Fatal(err)
	}
	return points
}

func TestGenericStats(t *testing.T) {
	if got := Mean([]int{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean([]float64{}); got != 0 {
		t.Errorf("Mean(empty) = %v, want 0", got)
	}
	if got := MaxIndex([]float64{1, 5, 5, 2}); got != 1 {
		t.Errorf("MaxIndex = %d, want 1", got)
	}
	if got := MinIndex([]int{3, 1, 1}); got != 1 {
		t.Errorf("MinIndex = %d, want 1", got)
	}
	if MaxIndex([]float64(nil)) != -1 || MinIndex([]float64(nil)) != -1 {
		t.Error("empty slices should return -1")
	}
}

func TestSummarize(t *testing.T) {
	points := curve(t, "FTFP_BERT")

	s, err := Summarize(points)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count != 447 {
		t.Errorf("expected 447 points, got %d", s.Count)
	}
	if s.EMin != 0.1 || math.Abs(s.EMax-249.6) > 1e-9 {
		t.Errorf("unexpected energy range %v - %v", s.EMin, s.EMax)
	}
	// the Bragg peak of this grid sits at its lowest energy
	if s.MaxAt != 0.1 {
		t.Errorf("expected peak at 0.1 MeV, got %v", s.MaxAt)
	}
	if math.Abs(s.MinAt-249.6) > 1e-9 {
		t.Errorf("expected minimum at the highest energy, got %v", s.MinAt)
	}
	if s.MeanDEDX <= s.MinDEDX || s.MeanDEDX >= s.MaxDEDX {
		t.Errorf("mean %v outside [%v, %v]", s.MeanDEDX, s.MinDEDX, s.MaxDEDX)
	}
	if s.MaxMass != s.MaxDEDX {
		t.Errorf("water mass stopping power should equal linear, got %v vs %v", s.MaxMass, s.MaxDEDX)
	}

	if _, err := Summarize(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestSamples(t *testing.T) {
	points := curve(t, "FTFP_BERT")
	rows := Samples(points, SampleEnergies, SampleTolerance)

	// above 10 MeV the reference grid sits on x.1 and x.6 MeV
	if len(rows) != 5 {
		t.Fatalf("expected 5 sample rows, got %d", len(rows))
	}
	if rows[0].Energy != 0.1 {
		t.Errorf("expected first sample at 0.1 MeV, got %v", rows[0].Energy)
	}
}

func TestCompare(t *testing.T) {
	a := curve(t, "FTFP_BERT")
	b := curve(t, "EM_option4")

	c, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxRelDiff > 0.05 || c.MaxRelDiff <= 0 {
		t.Errorf("unexpected max spread %v", c.MaxRelDiff)
	}
	if c.MaxAt != 0.1 {
		t.Errorf("expected largest spread at 0.1 MeV, got %v", c.MaxAt)
	}
	if c.SpreadAbove(10) >= c.MaxRelDiff {
		t.Errorf("spread above 10 MeV (%v) should be below the maximum", c.SpreadAbove(10))
	}
	if c.SpreadAbove(100) != 0 {
		t.Errorf("expected no spread above 100 MeV, got %v", c.SpreadAbove(100))
	}

	if _, err := Compare(a, b[:10]); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := Compare(nil, nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
