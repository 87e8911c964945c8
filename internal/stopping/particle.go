package stopping

import (
	"math"
	"sort"
	"strings"
)

// Particle is an incident charged particle.
type Particle struct {
	Name   string
	Charge int     // charge number z
	Mass   float64 // rest mass [MeV]
}

// Material is a target medium. Z is an effective atomic number for compounds.
type Material struct {
	Name           string
	Z              float64
	A              float64 // [g/mol]
	Density        float64 // [g/cm^3]
	MeanExcitation float64 // I [eV]
}

var (
	Proton   = Particle{Name: "proton", Charge: 1, Mass: 938.272}
	Deuteron = Particle{Name: "deuteron", Charge: 1, Mass: 1875.613}
	Alpha    = Particle{Name: "alpha", Charge: 2, Mass: 3727.379}

	// Water follows the G4_WATER effective parameters.
	Water = Material{Name: "water", Z: 7.42, A: 18.015, Density: 1.0, MeanExcitation: 75.0}
)

var particles = map[string]Particle{
	"proton":   Proton,
	"p":        Proton,
	"deuteron": Deuteron,
	"d":        Deuteron,
	"alpha":    Alpha,
}

var materials = map[string]Material{
	"water":    Water,
	"g4_water": Water,
}

// NewParticle builds a validated particle descriptor.
func NewParticle(name string, charge int, mass float64) (Particle, error) {
	p := Particle{Name: name, Charge: charge, Mass: mass}
	return p, p.Validate()
}

func (p Particle) Validate() error {
	if p.Charge == 0 {
		return configErrorf("particle %q: charge must be nonzero", p.Name)
	}
	if !positive(p.Mass) {
		return configErrorf("particle %q: mass must be positive, got %g", p.Name, p.Mass)
	}
	return nil
}

// NewMaterial builds a validated material descriptor. meanExcitation is in eV.
func NewMaterial(name string, z, a, density, meanExcitation float64) (Material, error) {
	m := Material{Name: name, Z: z, A: a, Density: density, MeanExcitation: meanExcitation}
	return m, m.Validate()
}

func (m Material) Validate() error {
	switch {
	case !positive(m.Z):
		return configErrorf("material %q: Z must be positive, got %g", m.Name, m.Z)
	case !positive(m.A):
		return configErrorf("material %q: A must be positive, got %g", m.Name, m.A)
	case !positive(m.Density):
		return configErrorf("material %q: density must be positive, got %g", m.Name, m.Density)
	case !positive(m.MeanExcitation):
		return configErrorf("material %q: mean excitation energy must be positive, got %g", m.Name, m.MeanExcitation)
	}
	return nil
}

// ExcitationMeV returns I in MeV.
func (m Material) ExcitationMeV() float64 {
	return m.MeanExcitation * 1e-6
}

// ZOverA returns the electron density per unit molar mass.
func (m Material) ZOverA() float64 {
	return m.Z / m.A
}

// LookupParticle resolves a catalog particle by case-insensitive name.
func LookupParticle(name string) (Particle, error) {
	p, ok := particles[strings.ToLower(name)]
	if !ok {
		return Particle{}, configErrorf("unknown particle %q (available: %s)", name, strings.Join(ParticleNames(), ", "))
	}
	return p, nil
}

// LookupMaterial resolves a catalog material by case-insensitive name.
func LookupMaterial(name string) (Material, error) {
	m, ok := materials[strings.ToLower(name)]
	if !ok {
		return Material{}, configErrorf("unknown material %q (available: %s)", name, strings.Join(MaterialNames(), ", "))
	}
	return m, nil
}

func ParticleNames() []string {
	return catalogNames(particles, func(p Particle) string { return p.Name })
}

func MaterialNames() []string {
	return catalogNames(materials, func(m Material) string { return m.Name })
}

func catalogNames[T any](catalog map[string]T, name func(T) string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(catalog))
	for _, v := range catalog {
		n := name(v)
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
