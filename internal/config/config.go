package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatsim/internal/heat"
)

// Defaults describe a biomass particle heated in a hot gas stream
// (Papadikis et al.).
const (
	DefaultShape        = "sphere"
	DefaultDensity      = 700.0
	DefaultSpecificHeat = 1500.0
	DefaultConductivity = 0.105
	DefaultConvection   = 375.0
	DefaultInitial      = 300.0
	DefaultAmbient      = 773.0
	DefaultRadius       = 0.000175
	DefaultNodeCount    = 100
	DefaultStepCount    = 1000
	DefaultMaxTime      = 0.8
	DefaultSolver       = "lu"
)

// iniSection holds the keys of an .ini configuration file.
const iniSection = "simulation"

// Config is one run's input record. NodeCount is the number of radial
// steps; the mesh has NodeCount+1 nodes including center and surface.
type Config struct {
	Shape        string  `yaml:"shape" json:"shape"`
	Density      float64 `yaml:"density" json:"density"`
	SpecificHeat float64 `yaml:"specific_heat" json:"specific_heat"`
	Conductivity float64 `yaml:"conductivity" json:"conductivity"`
	Convection   float64 `yaml:"convection_coefficient" json:"convection_coefficient"`
	Initial      float64 `yaml:"initial_temperature" json:"initial_temperature"`
	Ambient      float64 `yaml:"ambient_temperature" json:"ambient_temperature"`
	Radius       float64 `yaml:"characteristic_radius" json:"characteristic_radius"`
	NodeCount    int     `yaml:"node_count" json:"node_count"`
	StepCount    int     `yaml:"step_count" json:"step_count"`
	MaxTime      float64 `yaml:"max_time" json:"max_time"`
	Solver       string  `yaml:"solver_strategy" json:"solver_strategy"`
}

func DefaultConfig() *Config {
	return &Config{
		Shape:        DefaultShape,
		Density:      DefaultDensity,
		SpecificHeat: DefaultSpecificHeat,
		Conductivity: DefaultConductivity,
		Convection:   DefaultConvection,
		Initial:      DefaultInitial,
		Ambient:      DefaultAmbient,
		Radius:       DefaultRadius,
		NodeCount:    DefaultNodeCount,
		StepCount:    DefaultStepCount,
		MaxTime:      DefaultMaxTime,
		Solver:       DefaultSolver,
	}
}

// Load reads a YAML or INI file chosen by extension. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return loadINI(path)
	default:
		return loadYAML(path)
	}
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg := DefaultConfig()
	sec := file.Section(iniSection)

	floats := []struct {
		key string
		dst *float64
	}{
		{"density", &cfg.Density},
		{"specific_heat", &cfg.SpecificHeat},
		{"conductivity", &cfg.Conductivity},
		{"convection_coefficient", &cfg.Convection},
		{"initial_temperature", &cfg.Initial},
		{"ambient_temperature", &cfg.Ambient},
		{"characteristic_radius", &cfg.Radius},
		{"max_time", &cfg.MaxTime},
	}
	for _, f := range floats {
		if !sec.HasKey(f.key) {
			continue
		}
		v, err := sec.Key(f.key).Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", heat.ErrInvalidParameter, f.key, err)
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"node_count", &cfg.NodeCount},
		{"step_count", &cfg.StepCount},
	}
	for _, f := range ints {
		if !sec.HasKey(f.key) {
			continue
		}
		v, err := sec.Key(f.key).Int()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", heat.ErrInvalidParameter, f.key, err)
		}
		*f.dst = v
	}

	cfg.Shape = sec.Key("shape").MustString(cfg.Shape)
	cfg.Solver = sec.Key("solver_strategy").MustString(cfg.Solver)
	return cfg, nil
}

// Save writes cfg as YAML, or as INI when path ends in .ini.
func Save(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return saveINI(path, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func saveINI(path string, cfg *Config) error {
	file := ini.Empty()
	sec := file.Section(iniSection)
	kv := []struct{ key, value string }{
		{"shape", cfg.Shape},
		{"density", formatFloat(cfg.Density)},
		{"specific_heat", formatFloat(cfg.SpecificHeat)},
		{"conductivity", formatFloat(cfg.Conductivity)},
		{"convection_coefficient", formatFloat(cfg.Convection)},
		{"initial_temperature", formatFloat(cfg.Initial)},
		{"ambient_temperature", formatFloat(cfg.Ambient)},
		{"characteristic_radius", formatFloat(cfg.Radius)},
		{"node_count", strconv.Itoa(cfg.NodeCount)},
		{"step_count", strconv.Itoa(cfg.StepCount)},
		{"max_time", formatFloat(cfg.MaxTime)},
		{"solver_strategy", cfg.Solver},
	}
	for _, e := range kv {
		if _, err := sec.NewKey(e.key, e.value); err != nil {
			return fmt.Errorf("ini key %s: %w", e.key, err)
		}
	}
	return file.SaveTo(path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Input converts the record to solver inputs.
func (c *Config) Input() (heat.Input, error) {
	shape, err := heat.ParseShape(c.Shape)
	if err != nil {
		return heat.Input{}, err
	}
	return heat.Input{
		Shape:        shape,
		Density:      c.Density,
		SpecificHeat: c.SpecificHeat,
		Conductivity: c.Conductivity,
		Convection:   c.Convection,
		Initial:      c.Initial,
		Ambient:      c.Ambient,
		Radius:       c.Radius,
		RadialSteps:  c.NodeCount,
		TimeSteps:    c.StepCount,
		MaxTime:      c.MaxTime,
	}, nil
}

func (c *Config) Strategy() (heat.Strategy, error) {
	if c.Solver == "" {
		return heat.Strategy(DefaultSolver), nil
	}
	return heat.ParseStrategy(c.Solver)
}

// Params validates the record and derives the discretization.
func (c *Config) Params() (heat.Params, error) {
	in, err := c.Input()
	if err != nil {
		return heat.Params{}, err
	}
	return heat.Derive(in)
}

func (c *Config) Validate() error {
	if _, err := c.Strategy(); err != nil {
		return err
	}
	_, err := c.Params()
	return err
}
