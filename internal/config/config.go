package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dedx/internal/stopping"
)

const (
	DefaultParticle  = "proton"
	DefaultMaterial  = "water"
	DefaultOutputDir = "data"
	DefaultStart     = 0.1
	DefaultEnd       = 250.0
	DefaultStep      = 0.1
)

// Formats understood by the report writer.
const (
	FormatText    = "txt"
	FormatCSV     = "csv"
	FormatSummary = "summary"
	FormatXLSX    = "xlsx"
)

type Config struct {
	Particle  ParticleConfig `yaml:"particle" toml:"particle"`
	Material  MaterialConfig `yaml:"material" toml:"material"`
	Models    []string       `yaml:"models" toml:"models"`
	Grid      GridConfig     `yaml:"grid" toml:"grid"`
	Workers   int            `yaml:"workers" toml:"workers"`
	OutputDir string         `yaml:"output_dir" toml:"output_dir"`
	Formats   []string       `yaml:"formats" toml:"formats"`
}

// ParticleConfig names a catalog particle. Charge and Mass, when both set,
// describe a custom particle instead.
type ParticleConfig struct {
	Name   string  `yaml:"name" toml:"name"`
	Charge int     `yaml:"charge,omitempty" toml:"charge"`
	Mass   float64 `yaml:"mass,omitempty" toml:"mass"`
}

// MaterialConfig names a catalog material. Z, A, Density and I, when all set,
// describe a custom material instead.
type MaterialConfig struct {
	Name           string  `yaml:"name" toml:"name"`
	Z              float64 `yaml:"z,omitempty" toml:"z"`
	A              float64 `yaml:"a,omitempty" toml:"a"`
	Density        float64 `yaml:"density,omitempty" toml:"density"`
	MeanExcitation float64 `yaml:"mean_excitation_ev,omitempty" toml:"mean_excitation_ev"`
}

type GridConfig struct {
	Start    float64             `yaml:"start" toml:"start"`
	End      float64             `yaml:"end" toml:"end"`
	Step     float64             `yaml:"step" toml:"step"`
	Rules    []stopping.StepRule `yaml:"rules" toml:"rules"`
	StepMode string              `yaml:"step_mode,omitempty" toml:"step_mode"`
}

func DefaultConfig() *Config {
	ref := stopping.ReferenceGrid()
	return &Config{
		Particle:  ParticleConfig{Name: DefaultParticle},
		Material:  MaterialConfig{Name: DefaultMaterial},
		Models:    []string{"FTFP_BERT", "EM_option4"},
		Grid:      GridConfig{Start: ref.Start, End: ref.End, Step: ref.Step, Rules: ref.Rules},
		OutputDir: DefaultOutputDir,
		Formats:   []string{FormatText, FormatCSV, FormatSummary},
	}
}

// Load reads a YAML or TOML file (chosen by extension) over the defaults.
// A grid section without rules replaces the default rules with none.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	var gridSet, rulesSet bool
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		gridSet, rulesSet = md.IsDefined("grid"), md.IsDefined("grid", "rules")
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		var keys struct {
			Grid map[string]yaml.Node `yaml:"grid"`
		}
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		_, rulesSet = keys.Grid["rules"]
		gridSet = keys.Grid != nil
	}

	if gridSet && !rulesSet {
		cfg.Grid.Rules = nil
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every section converts to a valid core value.
func (c *Config) Validate() error {
	if _, err := c.ParticleSpec(); err != nil {
		return err
	}
	if _, err := c.MaterialSpec(); err != nil {
		return err
	}
	if _, err := c.EnergyGrid(); err != nil {
		return err
	}
	if len(c.Models) == 0 {
		return fmt.Errorf("%w: no models configured", stopping.ErrConfiguration)
	}
	for _, f := range c.Formats {
		switch f {
		case FormatText, FormatCSV, FormatSummary, FormatXLSX:
		default:
			return fmt.Errorf("%w: unknown output format %q", stopping.ErrConfiguration, f)
		}
	}
	return nil
}

func (c *Config) ParticleSpec() (stopping.Particle, error) {
	p := c.Particle
	if p.Charge != 0 || p.Mass != 0 {
		return stopping.NewParticle(p.Name, p.Charge, p.Mass)
	}
	return stopping.LookupParticle(p.Name)
}

func (c *Config) MaterialSpec() (stopping.Material, error) {
	m := c.Material
	if m.Z != 0 || m.A != 0 || m.Density != 0 || m.MeanExcitation != 0 {
		return stopping.NewMaterial(m.Name, m.Z, m.A, m.Density, m.MeanExcitation)
	}
	return stopping.LookupMaterial(m.Name)
}

func (c *Config) EnergyGrid() (stopping.Grid, error) {
	mode, err := stopping.ParseStepMode(c.Grid.StepMode)
	if err != nil {
		return stopping.Grid{}, err
	}
	g := stopping.Grid{
		Start: c.Grid.Start,
		End:   c.Grid.End,
		Step:  c.Grid.Step,
		Rules: append([]stopping.StepRule(nil), c.Grid.Rules...),
		Mode:  mode,
	}
	return g, g.Validate()
}

// ApplyPreset replaces the grid section with a named preset.
func (c *Config) ApplyPreset(name string) error {
	g := GetPreset(name)
	if g == nil {
		return fmt.Errorf("%w: unknown preset %q (available: %v)", stopping.ErrConfiguration, name, ListPresets())
	}
	c.Grid = *g
	c.Grid.Rules = append([]stopping.StepRule(nil), g.Rules...)
	return nil
}
