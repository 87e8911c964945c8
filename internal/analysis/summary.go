package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dedx/internal/stopping"
)

var ErrNoData = errors.New("analysis: no data points")

// SampleEnergies are the energies listed in report sample tables [MeV].
var SampleEnergies = []float64{0.1, 0.5, 1.0, 5.0, 10.0, 50.0, 100.0, 200.0, 250.0}

// SampleTolerance is the energy distance within which a grid point matches a sample.
const SampleTolerance = 0.01

type Summary struct {
	Count int     `json:"count" yaml:"count"`
	EMin  float64 `json:"e_min" yaml:"e_min"`
	EMax  float64 `json:"e_max" yaml:"e_max"`

	MaxDEDX  float64 `json:"max_dedx" yaml:"max_dedx"`
	MaxAt    float64 `json:"max_at" yaml:"max_at"` // Bragg peak energy on the grid
	MinDEDX  float64 `json:"min_dedx" yaml:"min_dedx"`
	MinAt    float64 `json:"min_at" yaml:"min_at"`
	MeanDEDX float64 `json:"mean_dedx" yaml:"mean_dedx"`

	MaxMass  float64 `json:"max_mass_dedx" yaml:"max_mass_dedx"`
	MinMass  float64 `json:"min_mass_dedx" yaml:"min_mass_dedx"`
	MeanMass float64 `json:"mean_mass_dedx" yaml:"mean_mass_dedx"`
}

func Summarize(points []stopping.Point) (Summary, error) {
	if len(points) == 0 {
		return Summary{}, ErrNoData
	}

	energies := make([]float64, len(points))
	dedx := make([]float64, len(points))
	mass := make([]float64, len(points))
	for i, p := range points {
		energies[i] = p.Energy
		dedx[i] = p.DEDX
		mass[i] = p.MassDEDX
	}

	hi, lo := MaxIndex(dedx), MinIndex(dedx)
	return Summary{
		Count:    len(points),
		EMin:     energies[MinIndex(energies)],
		EMax:     energies[MaxIndex(energies)],
		MaxDEDX:  dedx[hi],
		MaxAt:    energies[hi],
		MinDEDX:  dedx[lo],
		MinAt:    energies[lo],
		MeanDEDX: Mean(dedx),
		MaxMass:  mass[MaxIndex(mass)],
		MinMass:  mass[MinIndex(mass)],
		MeanMass: Mean(mass),
	}, nil
}

// Samples returns, for each requested energy, the first point within tol of
// it. Energies without a match are skipped.
func Samples(points []stopping.Point, energies []float64, tol float64) []stopping.Point {
	out := make([]stopping.Point, 0, len(energies))
	for _, e := range energies {
		for _, p := range points {
			if math.Abs(p.Energy-e) < tol {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Comparison holds the relative spread |a-b|/a between two curves.
type Comparison struct {
	Energies   []float64
	RelDiff    []float64
	MaxRelDiff float64
	MaxAt      float64
}

func Compare(a, b []stopping.Point) (Comparison, error) {
	if len(a) == 0 {
		return Comparison{}, ErrNoData
	}
	if len(a) != len(b) {
		return Comparison{}, fmt.Errorf("analysis: curves have %d and %d points", len(a), len(b))
	}

	c := Comparison{
		Energies: make([]float64, len(a)),
		RelDiff:  make([]float64, len(a)),
	}
	for i := range a {
		if a[i].Energy != b[i].Energy {
			return Comparison{}, fmt.Errorf("analysis: grids differ at index %d (%g vs %g MeV)", i, a[i].Energy, b[i].Energy)
		}
		c.Energies[i] = a[i].Energy
		if a[i].DEDX != 0 {
			c.RelDiff[i] = math.Abs(a[i].DEDX-b[i].DEDX) / a[i].DEDX
		}
	}

	idx := MaxIndex(c.RelDiff)
	c.MaxRelDiff = c.RelDiff[idx]
	c.MaxAt = c.Energies[idx]
	return c, nil
}

// SpreadAbove returns the largest relative spread at energies >= e.
func (c Comparison) SpreadAbove(e float64) float64 {
	var spread float64
	for i, energy := range c.Energies {
		if energy >= e && c.RelDiff[i] > spread {
			spread = c.RelDiff[i]
		}
	}
	return spread
}
