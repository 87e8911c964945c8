package stopping

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ModelInfo describes a correction model for listings and report headers.
type ModelInfo struct {
	Name            string   `yaml:"name" json:"name"`
	Parametrization string   `yaml:"parametrization" json:"parametrization"`
	EMConstructor   string   `yaml:"em_constructor" json:"em_constructor"`
	Corrections     []string `yaml:"corrections" json:"corrections"`
	EnergyRange     string   `yaml:"energy_range" json:"energy_range"`
	RecommendedFor  string   `yaml:"recommended_for" json:"recommended_for"`
	Bands           []Band   `yaml:"bands" json:"bands"`
}

// BandModel is a CorrectionModel backed by a band table. The correction
// depends on energy only.
type BandModel struct {
	info  ModelInfo
	table *Table
}

func NewBandModel(info ModelInfo, table *Table) *BandModel {
	info.Bands = table.Bands()
	return &BandModel{info: info, table: table}
}

func (m *BandModel) Name() string { return m.info.Name }

func (m *BandModel) Correct(energy float64, _ Material, _ Particle) (float64, float64) {
	return m.table.Lookup(energy)
}

func (m *BandModel) Info() ModelInfo {
	info := m.info
	info.Corrections = append([]string(nil), m.info.Corrections...)
	info.Bands = m.table.Bands()
	return info
}

// Describer is implemented by models that can report their parameters.
type Describer interface {
	Info() ModelInfo
}

// Transition energy between the low-energy parametrization and Bethe-Bloch.
const TransitionEnergy = 2.0

// NewICRU73 is the standard EM model: a shell-correction approximation
// below the 2 MeV transition and the plain formula above it.
func NewICRU73() *BandModel {
	return NewBandModel(ModelInfo{
		Name:            "FTFP_BERT",
		Parametrization: "ICRU73",
		EMConstructor:   "G4EmStandardPhysics",
		Corrections:     []string{"Shell"},
		EnergyRange:     "0.5-250 MeV",
		RecommendedFor:  "General physics and collider applications",
	}, MustTable(
		Band{Lower: 0, Upper: TransitionEnergy, FactorLower: 1.02 + 0.02*0.5/1.5, FactorUpper: 1.0},
	))
}

// NewICRU90 is the option4 EM model: a stronger low-energy correction, a
// combined shell/Barkas/Bloch reduction up to 10 MeV and a density-effect
// band that returns to the plain formula at 100 MeV.
func NewICRU90() *BandModel {
	return NewBandModel(ModelInfo{
		Name:            "EM_option4",
		Parametrization: "ICRU90",
		EMConstructor:   "G4EmStandardPhysics_option4",
		Corrections:     []string{"Shell", "Barkas", "Bloch", "Density effect"},
		EnergyRange:     "0.1-250 MeV",
		RecommendedFor:  "Medical physics and proton therapy",
	}, MustTable(
		Band{Lower: 0, Upper: TransitionEnergy, FactorLower: 1.05 + 0.05*0.5/1.5, FactorUpper: 1.0},
		Band{Lower: TransitionEnergy, Upper: 10, FactorLower: 1.0, FactorUpper: 0.98},
		Band{Lower: 10, Upper: 100, FactorLower: 0.98, FactorUpper: 1.0},
	))
}

// NewUncorrected applies no correction.
func NewUncorrected() *BandModel {
	return NewBandModel(ModelInfo{
		Name:            "bethe_bloch",
		Parametrization: "none",
		EMConstructor:   "Bethe-Bloch",
		EnergyRange:     "0.1-250 MeV",
		RecommendedFor:  "Reference curve for model comparisons",
	}, MustTable())
}

// Registry maps model names to constructors.
type Registry struct {
	mu     sync.RWMutex
	models map[string]func() CorrectionModel
}

// NewRegistry returns a registry holding the shipped models.
func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func() CorrectionModel)}

	r.models["FTFP_BERT"] = func() CorrectionModel { return NewICRU73() }
	r.models["EM_option4"] = func() CorrectionModel { return NewICRU90() }
	r.models["bethe_bloch"] = func() CorrectionModel { return NewUncorrected() }

	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry is the process registry used by NewWithModel.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a model constructor under name.
func (r *Registry) Register(name string, fn func() CorrectionModel) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return configErrorf("model registration needs a name and a constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[name]; ok {
		return configErrorf("model %q already registered", name)
	}
	r.models[name] = fn
	return nil
}

// Get builds the model registered under name. Names are matched exactly
// first, then case-insensitively against names and parametrization tags.
// Case-insensitive matches resolve in sorted name order.
func (r *Registry) Get(name string) (CorrectionModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.models[name]; ok {
		return fn(), nil
	}
	names := r.sortedNames()
	for _, key := range names {
		if strings.EqualFold(key, name) {
			return r.models[key](), nil
		}
	}
	for _, key := range names {
		m := r.models[key]()
		if d, ok := m.(Describer); ok && strings.EqualFold(d.Info().Parametrization, name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownModel, name, strings.Join(r.sortedNames(), ", "))
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
