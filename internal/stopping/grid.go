package stopping

import (
	"fmt"
	"math"
	"strings"
)

// MaxGridPoints bounds the size of a generated grid.
const MaxGridPoints = 10_000_000

// StepRule switches the grid step once the energy reaches Threshold.
type StepRule struct {
	Threshold float64 `yaml:"threshold" toml:"threshold" json:"threshold"`
	Step      float64 `yaml:"step" toml:"step" json:"step"`
}

// StepMode selects how step rules are applied while walking the grid.
type StepMode int

const (
	// StepCompat rescans the rules after every point and adopts the first
	// rule that has been reached and whose step differs from the current one.
	// This reproduces the reference datasets, including the alternation
	// between steps once several thresholds have been passed.
	StepCompat StepMode = iota

	// StepPiecewise advances each point with the step of the region
	// [threshold_i, threshold_i+1) that contains it.
	StepPiecewise
)

func (m StepMode) String() string {
	switch m {
	case StepCompat:
		return "compat"
	case StepPiecewise:
		return "piecewise"
	default:
		return fmt.Sprintf("StepMode(%d)", int(m))
	}
}

// ParseStepMode parses "compat" or "piecewise". The empty string is compat.
func ParseStepMode(s string) (StepMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compat":
		return StepCompat, nil
	case "piecewise":
		return StepPiecewise, nil
	default:
		return 0, configErrorf("unknown step mode %q (want compat or piecewise)", s)
	}
}

// Grid describes a variable-resolution kinetic energy grid over [Start, End).
type Grid struct {
	Start float64
	End   float64
	Step  float64
	Rules []StepRule
	Mode  StepMode
}

// NewGrid returns a validated grid using the compat step mode.
func NewGrid(start, end, step float64, rules ...StepRule) (Grid, error) {
	g := Grid{Start: start, End: end, Step: step, Rules: append([]StepRule(nil), rules...)}
	return g, g.Validate()
}

// ReferenceGrid is the 0.1-250 MeV grid of the reference datasets.
func ReferenceGrid() Grid {
	return Grid{
		Start: 0.1,
		End:   250.0,
		Step:  0.1,
		Rules: []StepRule{
			{Threshold: 10.0, Step: 0.5},
			{Threshold: 50.0, Step: 1.0},
			{Threshold: 100.0, Step: 5.0},
		},
	}
}

func (g Grid) Validate() error {
	if !positive(g.Start) || !finite(g.End) {
		return configErrorf("grid bounds must be finite with start > 0, got [%g, %g)", g.Start, g.End)
	}
	if g.Start >= g.End {
		return configErrorf("grid start %g must be below end %g", g.Start, g.End)
	}
	if !positive(g.Step) {
		return configErrorf("grid step must be positive, got %g", g.Step)
	}
	for i, r := range g.Rules {
		if !positive(r.Step) {
			return configErrorf("rule %d: step must be positive, got %g", i, r.Step)
		}
		if !finite(r.Threshold) || r.Threshold > g.End {
			return configErrorf("rule %d: threshold %g must be finite and not above end %g", i, r.Threshold, g.End)
		}
		if i > 0 && r.Threshold <= g.Rules[i-1].Threshold {
			return configErrorf("rule %d: threshold %g not above previous threshold %g", i, r.Threshold, g.Rules[i-1].Threshold)
		}
	}
	if g.Mode != StepCompat && g.Mode != StepPiecewise {
		return configErrorf("unknown step mode %d", int(g.Mode))
	}
	if n := (g.End - g.Start) / g.minStep(); n > MaxGridPoints {
		return configErrorf("grid may exceed %d points (about %.3g)", MaxGridPoints, n)
	}
	return nil
}

func (g Grid) minStep() float64 {
	step := g.Step
	for _, r := range g.Rules {
		step = math.Min(step, r.Step)
	}
	return step
}

// Generate returns the strictly increasing grid points in [Start, End).
// Each call returns a fresh slice.
func (g Grid) Generate() ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.Mode == StepPiecewise {
		return g.generatePiecewise()
	}
	return g.generateCompat()
}

// Len returns the number of points Generate would produce.
func (g Grid) Len() (int, error) {
	pts, err := g.Generate()
	return len(pts), err
}

func (g Grid) generateCompat() ([]float64, error) {
	points := make([]float64, 0, g.estimate())
	e := g.Start
	step := g.Step

	for e < g.End {
		if len(points) >= MaxGridPoints {
			return nil, configErrorf("grid exceeds %d points", MaxGridPoints)
		}
		points = append(points, e)

		for _, r := range g.Rules {
			if e >= r.Threshold && step != r.Step {
				step = r.Step
				break
			}
		}

		next := e + step
		if next <= e {
			return nil, configErrorf("step %g underflows at %g MeV", step, e)
		}
		e = next
	}
	return points, nil
}

func (g Grid) generatePiecewise() ([]float64, error) {
	points := make([]float64, 0, g.estimate())
	region := g.region(g.Start)
	anchor := g.Start
	n := 0

	for e := g.Start; e < g.End; {
		if len(points) >= MaxGridPoints {
			return nil, configErrorf("grid exceeds %d points", MaxGridPoints)
		}
		points = append(points, e)

		n++
		next := anchor + float64(n)*g.stepFor(region)
		if next <= e {
			return nil, configErrorf("step %g underflows at %g MeV", g.stepFor(region), e)
		}
		if r := g.region(next); r != region {
			region, anchor, n = r, next, 0
		}
		e = next
	}
	return points, nil
}

// region returns the number of rule thresholds at or below e.
func (g Grid) region(e float64) int {
	idx := 0
	for idx < len(g.Rules) && e >= g.Rules[idx].Threshold {
		idx++
	}
	return idx
}

func (g Grid) stepFor(region int) float64 {
	if region == 0 {
		return g.Step
	}
	return g.Rules[region-1].Step
}

func (g Grid) estimate() int {
	n := (g.End - g.Start) / g.Step
	if n > 4096 {
		return 4096
	}
	return int(n) + 1
}

func (g Grid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%g, %g) MeV step %g", g.Start, g.End, g.Step)
	for _, r := range g.Rules {
		fmt.Fprintf(&b, ", %g@%g", r.Step, r.Threshold)
	}
	fmt.Fprintf(&b, " (%s)", g.Mode)
	return b.String()
}
