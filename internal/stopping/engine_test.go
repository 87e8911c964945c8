package stopping

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func newWaterEngine(t *testing.T, model string, opts ...Option) *Engine {
	t.Helper()
	eng, err := NewWithModel(Proton, Water, model, opts...)
	if err != nil {
		t.Fatalf("engine for %s: %v", model, err)
	}
	return eng
}

func TestKnownValues(t *testing.T) {
	eng := newWaterEngine(t, "FTFP_BERT")

	tests := []struct {
		energy float64
		lo, hi float64
	}{
		{100.0, 5.3, 5.5},
		{0.1, 630, 650},
	}

	for _, tt := range tests {
		dedx, err := eng.ComputeDEDX(tt.energy)
		if err != nil {
			t.Fatalf("ComputeDEDX(%v): %v", tt.energy, err)
		}
		if dedx < tt.lo || dedx > tt.hi {
			t.Errorf("ComputeDEDX(%v) = %.4f, want in [%v, %v]", tt.energy, dedx, tt.lo, tt.hi)
		}
	}
}

func TestUncorrectedBetheBloch(t *testing.T) {
	eng := newWaterEngine(t, "bethe_bloch")

	dedx, err := eng.ComputeDEDX(100)
	if err != nil {
		t.Fatal(err)
	}
	base, err := eng.BaseMassDEDX(100)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dedx-5.4095) > 1e-3 {
		t.Errorf("expected 5.4095 MeV/cm, got %.6f", dedx)
	}
	if dedx != base*Water.Density {
		t.Errorf("uncorrected dedx %v differs from base %v", dedx, base)
	}
}

func TestKinematics(t *testing.T) {
	eng := newWaterEngine(t, "FTFP_BERT")

	k, err := eng.Kinematics(938.272)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(k.Gamma-2) > 1e-12 {
		t.Errorf("expected gamma 2, got %v", k.Gamma)
	}
	if math.Abs(k.Beta2-0.75) > 1e-12 {
		t.Errorf("expected beta^2 0.75, got %v", k.Beta2)
	}
	if k.TMax <= 0 || k.TMax > 2*ElectronMass*3 {
		t.Errorf("unexpected Tmax %v", k.TMax)
	}
}

func TestInvalidEnergy(t *testing.T) {
	eng := newWaterEngine(t, "FTFP_BERT")

	for _, e := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		if _, err := eng.ComputeDEDX(e); !errors.Is(err, ErrInvalidEnergy) {
			t.Errorf("ComputeDEDX(%v): expected ErrInvalidEnergy, got %v", e, err)
		}
		if _, err := eng.ComputeMassDEDX(e); !errors.Is(err, ErrInvalidEnergy) {
			t.Errorf("ComputeMassDEDX(%v): expected ErrInvalidEnergy, got %v", e, err)
		}
	}

	var evalErr *EvalError
	_, err := eng.ComputeDEDX(-5)
	if !errors.As(err, &evalErr) || evalErr.Energy != -5 {
		t.Errorf("expected EvalError carrying the energy, got %v", err)
	}
}

func TestDomainAndComputationErrors(t *testing.T) {
	eng := newWaterEngine(t, "FTFP_BERT")

	// beta^2 ~ 2e-9
	if _, err := eng.ComputeDEDX(1e-6); !errors.Is(err, ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}

	// above the floor but below the point where the logarithm turns positive
	if _, err := eng.ComputeDEDX(0.01); !errors.Is(err, ErrComputation) {
		t.Errorf("expected ErrComputation, got %v", err)
	}
}

func TestMassDEDXDensityIndependence(t *testing.T) {
	for _, rho := range []float64{0.001205, 1.0, 1.19, 11.35} {
		mat := Water
		mat.Density = rho
		eng, err := New(Proton, mat, NewICRU90())
		if err != nil {
			t.Fatal(err)
		}
		ref, _ := newWaterEngine(t, "EM_option4").ComputeMassDEDX(50)

		for _, e := range []float64{0.1, 1, 10, 50, 250} {
			dedx, err := eng.ComputeDEDX(e)
			if err != nil {
				t.Fatal(err)
			}
			mass, err := eng.ComputeMassDEDX(e)
			if err != nil {
				t.Fatal(err)
			}
			if mass != dedx/rho {
				t.Errorf("rho=%v E=%v: mass %v != dedx/rho %v", rho, e, mass, dedx/rho)
			}
		}

		mass50, _ := eng.ComputeMassDEDX(50)
		if math.Abs(mass50-ref)/ref > 1e-12 {
			t.Errorf("rho=%v: mass stopping power %v depends on density (ref %v)", rho, mass50, ref)
		}
	}
}

func TestAlphaScalesWithChargeSquared(t *testing.T) {
	p, err := New(Proton, Water, NewUncorrected())
	if err != nil {
		t.Fatal(err)
	}
	heavy := Particle{Name: "heavy", Charge: 2, Mass: Proton.Mass}
	a, err := New(heavy, Water, NewUncorrected())
	if err != nil {
		t.Fatal(err)
	}

	dp, _ := p.ComputeDEDX(50)
	da, _ := a.ComputeDEDX(50)
	if math.Abs(da/dp-4) > 1e-12 {
		t.Errorf("expected z^2 scaling of 4, got %v", da/dp)
	}
}

func TestBatchMatchesScalar(t *testing.T) {
	energies, err := ReferenceGrid().Generate()
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{1, 4} {
		eng := newWaterEngine(t, "EM_option4", WithWorkers(workers), WithMinChunk(16))
		points, err := eng.ComputeBatch(energies)
		if err != nil {
			t.Fatalf("batch failed: %v", err)
		}
		if len(points) != len(energies) {
			t.Fatalf("expected %d points, got %d", len(energies), len(points))
		}
		for i, p := range points {
			dedx, _ := eng.ComputeDEDX(energies[i])
			mass, _ := eng.ComputeMassDEDX(energies[i])
			if p.Energy != energies[i] || p.DEDX != dedx || p.MassDEDX != mass {
				t.Fatalf("workers=%d point %d: got %+v, want (%v, %v, %v)", workers, i, p, energies[i], dedx, mass)
			}
		}
	}
}

func TestBatchEmpty(t *testing.T) {
	eng := newWaterEngine(t, "FTFP_BERT")
	points, err := eng.ComputeBatch(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 0 {
		t.Errorf("expected empty result, got %d points", len(points))
	}
}

func TestBatchFirstErrorByIndex(t *testing.T) {
	energies := make([]float64, 1000)
	for i := range energies {
		energies[i] = 1 + float64(i)*0.1
	}
	energies[700] = 0
	energies[300] = -5
	energies[900] = 1e-6

	for _, workers := range []int{1, 2, 8} {
		eng := newWaterEngine(t, "FTFP_BERT", WithWorkers(workers), WithMinChunk(10))
		points, err := eng.ComputeBatch(energies)
		if points != nil {
			t.Errorf("workers=%d: expected no partial result", workers)
		}
		var evalErr *EvalError
		if !errors.As(err, &evalErr) {
			t.Fatalf("workers=%d: expected EvalError, got %v", workers, err)
		}
		if evalErr.Energy != -5 || !errors.Is(err, ErrInvalidEnergy) {
			t.Errorf("workers=%d: expected the error for index 300, got %v", workers, err)
		}
	}
}

func TestEngineValidation(t *testing.T) {
	if _, err := New(Particle{Name: "neutral", Mass: 939.6}, Water, NewICRU73()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for neutral particle, got %v", err)
	}
	if _, err := New(Proton, Material{Name: "void"}, NewICRU73()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for empty material, got %v", err)
	}
	if _, err := New(Proton, Water, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for nil model, got %v", err)
	}
	if _, err := New(Proton, Water, NewICRU73(), WithConstants(Constants{})); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for zero constants, got %v", err)
	}
	if _, err := NewWithModel(Proton, Water, "nope"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestFormatOutput(t *testing.T) {
	out := FormatOutput([]Point{
		{Energy: 0.1, DEDX: 648.39894, MassDEDX: 648.39894},
		{Energy: 100, DEDX: 5.40951, MassDEDX: 5.40951},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != TableHeader {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", 75) {
		t.Errorf("unexpected rule %q", lines[1])
	}
	want := "           0.10                   648.40                             648.40"
	if lines[2] != want {
		t.Errorf("row mismatch:\n got %q\nwant %q", lines[2], want)
	}
	if !strings.HasSuffix(lines[3], "5.41") || len(lines[3]) != 75 {
		t.Errorf("unexpected row %q", lines[3])
	}

	if FormatOutput(nil) != TableHeader+"\n"+strings.Repeat("-", 75) {
		t.Error("empty table should contain only the header and rule")
	}
}

func TestLookupCatalog(t *testing.T) {
	if p, err := LookupParticle("Proton"); err != nil || p != Proton {
		t.Errorf("LookupParticle(Proton) = %v, %v", p, err)
	}
	if m, err := LookupMaterial("G4_WATER"); err != nil || m != Water {
		t.Errorf("LookupMaterial(G4_WATER) = %v, %v", m, err)
	}
	if _, err := LookupMaterial("lead"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if got := ParticleNames(); len(got) != 3 {
		t.Errorf("expected 3 particles, got %v", got)
	}
}
