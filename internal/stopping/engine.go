package stopping

import (
	"math"
	"runtime"
)

const (
	// ElectronMass is the electron rest energy [MeV].
	ElectronMass = 0.511

	// BetheK is 4*pi*N_A*r_e^2*m_e*c^2 [MeV cm^2/mol].
	BetheK = 0.307075

	// DefaultBeta2Floor is the smallest beta^2 the formula is evaluated at.
	DefaultBeta2Floor = 1e-6
)

// Constants are the physical constants used by an Engine.
type Constants struct {
	K            float64
	ElectronMass float64
	Beta2Floor   float64
}

func DefaultConstants() Constants {
	return Constants{
		K:            BetheK,
		ElectronMass: ElectronMass,
		Beta2Floor:   DefaultBeta2Floor,
	}
}

func (c Constants) Validate() error {
	if !positive(c.K) || !positive(c.ElectronMass) || !positive(c.Beta2Floor) || c.Beta2Floor >= 1 {
		return configErrorf("invalid constants %+v", c)
	}
	return nil
}

// Kinematics holds the relativistic quantities at one kinetic energy.
type Kinematics struct {
	Gamma float64
	Beta2 float64
	TMax  float64 // maximum energy transfer to a free electron [MeV]
}

// Point is one evaluated grid point.
type Point struct {
	Energy   float64 `json:"energy" yaml:"energy"`       // [MeV]
	DEDX     float64 `json:"dedx" yaml:"dedx"`           // [MeV/cm]
	MassDEDX float64 `json:"mass_dedx" yaml:"mass_dedx"` // [MeV cm^2/g]
}

// Engine evaluates stopping power for one particle, material and model.
type Engine struct {
	particle Particle
	material Material
	model    CorrectionModel
	consts   Constants
	workers  int
	minChunk int
}

type Option func(*Engine)

func WithConstants(c Constants) Option {
	return func(e *Engine) { e.consts = c }
}

// WithWorkers bounds batch parallelism. n <= 0 selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithMinChunk sets the smallest number of points handed to one worker.
func WithMinChunk(n int) Option {
	return func(e *Engine) { e.minChunk = n }
}

func New(p Particle, m Material, model CorrectionModel, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, configErrorf("nil correction model")
	}

	e := &Engine{
		particle: p,
		material: m,
		model:    model,
		consts:   DefaultConstants(),
		minChunk: 64,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.consts.Validate(); err != nil {
		return nil, err
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.minChunk < 1 {
		e.minChunk = 1
	}
	return e, nil
}

// NewWithModel resolves modelName in the default registry.
func NewWithModel(p Particle, m Material, modelName string, opts ...Option) (*Engine, error) {
	model, err := DefaultRegistry().Get(modelName)
	if err != nil {
		return nil, err
	}
	return New(p, m, model, opts...)
}

func (e *Engine) Particle() Particle     { return e.particle }
func (e *Engine) Material() Material     { return e.material }
func (e *Engine) Model() CorrectionModel { return e.model }
func (e *Engine) Constants() Constants   { return e.consts }

// Kinematics returns gamma, beta^2 and Tmax at kinetic energy [MeV].
func (e *Engine) Kinematics(energy float64) (Kinematics, error) {
	if !positive(energy) {
		return Kinematics{}, &EvalError{Energy: energy, Wrapped: ErrInvalidEnergy}
	}

	mass := e.particle.Mass
	me := e.consts.ElectronMass

	gamma := 1 + energy/mass
	beta2 := 1 - 1/(gamma*gamma)
	if beta2 < e.consts.Beta2Floor {
		return Kinematics{}, &EvalError{
			Energy:  energy,
			Detail:  "beta^2 below floor",
			Wrapped: ErrDomain,
		}
	}

	ratio := me / mass
	bg2 := beta2 * gamma * gamma
	tmax := 2 * me * bg2 / (1 + 2*gamma*ratio + ratio*ratio)

	return Kinematics{Gamma: gamma, Beta2: beta2, TMax: tmax}, nil
}

// BaseMassDEDX is the uncorrected Bethe-Bloch mass stopping power [MeV cm^2/g].
func (e *Engine) BaseMassDEDX(energy float64) (float64, error) {
	k, err := e.Kinematics(energy)
	if err != nil {
		return 0, err
	}
	return e.bethe(k), nil
}

func (e *Engine) bethe(k Kinematics) float64 {
	z := float64(e.particle.Charge)
	me := e.consts.ElectronMass
	i := e.material.ExcitationMeV()

	bg2 := k.Beta2 * k.Gamma * k.Gamma
	logTerm := math.Log(2 * me * bg2 * k.TMax / (i * i))

	return e.consts.K * z * z * e.material.ZOverA() / k.Beta2 * (0.5*logTerm - k.Beta2)
}

// ComputeDEDX returns the corrected linear stopping power [MeV/cm].
func (e *Engine) ComputeDEDX(energy float64) (float64, error) {
	k, err := e.Kinematics(energy)
	if err != nil {
		return 0, err
	}

	base := e.bethe(k)
	factor, offset := e.model.Correct(energy, e.material, e.particle)
	dedx := (base*factor + offset) * e.material.Density

	if math.IsNaN(dedx) || math.IsInf(dedx, 0) || dedx < 0 {
		return 0, &EvalError{
			Energy:  energy,
			Detail:  "logarithm argument out of range or correction too strong",
			Wrapped: ErrComputation,
		}
	}
	return dedx, nil
}

// ComputeMassDEDX returns ComputeDEDX divided by the material density [MeV cm^2/g].
func (e *Engine) ComputeMassDEDX(energy float64) (float64, error) {
	dedx, err := e.ComputeDEDX(energy)
	if err != nil {
		return 0, err
	}
	return dedx / e.material.Density, nil
}

func (e *Engine) point(energy float64) (Point, error) {
	dedx, err := e.ComputeDEDX(energy)
	if err != nil {
		return Point{}, err
	}
	return Point{Energy: energy, DEDX: dedx, MassDEDX: dedx / e.material.Density}, nil
}
