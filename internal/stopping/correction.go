package stopping

import (
	"sort"
)

// CorrectionModel adjusts the Bethe-Bloch mass stopping power:
//
//	dE/dx = (base*factor + offset) * density
//
// offset is in MeV cm^2/g. Implementations must be safe for concurrent use
// and must never fail; energies outside their tables map to (1, 0).
type CorrectionModel interface {
	Name() string
	Correct(energy float64, mat Material, p Particle) (factor, offset float64)
}

// Band is a correction over [Lower, Upper) MeV. The factor varies linearly
// from FactorLower at Lower to FactorUpper at Upper.
type Band struct {
	Lower       float64 `yaml:"lower" json:"lower"`
	Upper       float64 `yaml:"upper" json:"upper"`
	FactorLower float64 `yaml:"factor_lower" json:"factor_lower"`
	FactorUpper float64 `yaml:"factor_upper" json:"factor_upper"`
	Offset      float64 `yaml:"offset" json:"offset"`
}

// ConstantBand is a band with a fixed factor and offset.
func ConstantBand(lower, upper, factor, offset float64) Band {
	return Band{Lower: lower, Upper: upper, FactorLower: factor, FactorUpper: factor, Offset: offset}
}

func (b Band) Contains(energy float64) bool {
	return energy >= b.Lower && energy < b.Upper
}

// Factor interpolates the band factor at energy.
func (b Band) Factor(energy float64) float64 {
	if b.FactorLower == b.FactorUpper {
		return b.FactorLower
	}
	t := (energy - b.Lower) / (b.Upper - b.Lower)
	return b.FactorLower + t*(b.FactorUpper-b.FactorLower)
}

// Table is an ordered set of non-overlapping correction bands.
type Table struct {
	bands []Band
}

// NewTable validates and copies bands. Bands must be ordered by lower bound
// and must not overlap; adjacent bands may share a boundary.
func NewTable(bands ...Band) (*Table, error) {
	for i, b := range bands {
		if !finite(b.Lower) || !finite(b.Upper) || b.Lower >= b.Upper {
			return nil, configErrorf("band %d: invalid bounds [%g, %g)", i, b.Lower, b.Upper)
		}
		if !positive(b.FactorLower) || !positive(b.FactorUpper) {
			return nil, configErrorf("band %d: factors must be positive, got %g..%g", i, b.FactorLower, b.FactorUpper)
		}
		if !finite(b.Offset) {
			return nil, configErrorf("band %d: offset must be finite", i)
		}
		if i > 0 && b.Lower < bands[i-1].Upper {
			return nil, configErrorf("band %d [%g, %g) overlaps or precedes band %d [%g, %g)",
				i, b.Lower, b.Upper, i-1, bands[i-1].Lower, bands[i-1].Upper)
		}
	}
	return &Table{bands: append([]Band(nil), bands...)}, nil
}

// MustTable is NewTable for static tables; it panics on invalid bands.
func MustTable(bands ...Band) *Table {
	t, err := NewTable(bands...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the band correction containing energy, or (1, 0).
func (t *Table) Lookup(energy float64) (factor, offset float64) {
	if t == nil {
		return 1, 0
	}
	i := sort.Search(len(t.bands), func(i int) bool { return t.bands[i].Upper > energy })
	if i < len(t.bands) && t.bands[i].Contains(energy) {
		b := t.bands[i]
		return b.Factor(energy), b.Offset
	}
	return 1, 0
}

func (t *Table) Bands() []Band {
	if t == nil {
		return nil
	}
	return append([]Band(nil), t.bands...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bands)
}
