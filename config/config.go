// Package config loads run parameters for a simulation from YAML,
// following the teacher's viper + yaml.v3 two-step envelope idiom:
// viper decodes the loose outer shape, then the inner "def" block is
// re-marshaled and unmarshaled into a concrete typed struct.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"wildfire/engine"
	"wildfire/fuzzy"
	"wildfire/wind"
)

// OuterConfig is the loose outer envelope every config file carries:
// a "kind" tag plus an opaque "def" block whose shape depends on kind.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// Durations is the (D_fire, D_out) pair, in steps since ignition.
type Durations struct {
	DFire int `yaml:"dFire"`
	DOut  int `yaml:"dOut"`
}

// Environment holds the immutable-per-run meteorological state.
type Environment struct {
	WindDirection string  `yaml:"windDirection"` // one of N,NE,E,SE,S,SW,W,NW
	WindSpeed     float64 `yaml:"windSpeed"`
	Humidity      float64 `yaml:"humidity"`
	Temperature   float64 `yaml:"temperature"`
}

// RunConfig is the concrete, typed configuration for one simulation
// run: the engine's configuration enumeration (§6) plus the harness
// parameters (raster path, step count, server address) that sit
// outside the engine's own API.
type RunConfig struct {
	NeighborPolicy string `yaml:"neighborPolicy"` // simple | weighted_stochastic
	WindPolicy     string `yaml:"windPolicy"`      // scaled_isotropic | signed_directional
	FuzzyVariant   string `yaml:"fuzzyVariant"`    // S | T

	Durations   Durations   `yaml:"durations"`
	Environment Environment `yaml:"environment"`

	Seed uint64 `yaml:"seed"`

	LandCoverPath string `yaml:"landCoverPath"`
	TerrainPath   string `yaml:"terrainPath"`

	Steps        int    `yaml:"steps"`
	IgnitionSeed int    `yaml:"ignitionSeed"` // number of random ignitions at t=0
	NWorkers     int    `yaml:"nworkers"`
	ServerAddr   string `yaml:"serverAddr"`
}

// FromYaml reads and decodes a RunConfig from path, following
// reinforcement.FromYaml's outer/inner unmarshal dance verbatim: viper
// only ever sees the loose map-shaped envelope, and the strongly
// typed struct is populated from a second yaml.v3 pass over the "def"
// block, decoupling viper's decoding quirks from the concrete type.
func FromYaml(path string) (*RunConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &OuterConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, err
	}

	cfg := &RunConfig{}
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *RunConfig) applyDefaults() {
	if cfg.NeighborPolicy == "" {
		cfg.NeighborPolicy = "simple"
	}
	if cfg.WindPolicy == "" {
		cfg.WindPolicy = "scaled_isotropic"
	}
	if cfg.FuzzyVariant == "" {
		cfg.FuzzyVariant = "S"
	}
	if cfg.Durations.DFire == 0 {
		cfg.Durations.DFire = engine.DefaultDFire
	}
	if cfg.Durations.DOut == 0 {
		cfg.Durations.DOut = engine.DefaultDOut
	}
	if cfg.NWorkers == 0 {
		cfg.NWorkers = 1
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.Environment.WindDirection == "" {
		cfg.Environment.WindDirection = "N"
	}
}

// WindDirection parses the configured direction name into wind.Direction.
func (cfg *RunConfig) WindDirection() (wind.Direction, error) {
	switch cfg.Environment.WindDirection {
	case "N":
		return wind.N, nil
	case "NE":
		return wind.NE, nil
	case "E":
		return wind.E, nil
	case "SE":
		return wind.SE, nil
	case "S":
		return wind.S, nil
	case "SW":
		return wind.SW, nil
	case "W":
		return wind.W, nil
	case "NW":
		return wind.NW, nil
	default:
		return 0, &engine.ConfigError{Reason: "unknown wind direction " + cfg.Environment.WindDirection}
	}
}

// WindPolicyValue parses the configured wind policy name.
func (cfg *RunConfig) WindPolicyValue() (wind.Policy, error) {
	switch cfg.WindPolicy {
	case "signed_directional":
		return wind.SignedDirectional, nil
	case "scaled_isotropic", "":
		return wind.ScaledIsotropic, nil
	default:
		return 0, &engine.ConfigError{Reason: "unknown wind_policy " + cfg.WindPolicy}
	}
}

// FuzzyVariantValue parses the configured fuzzy variant name.
func (cfg *RunConfig) FuzzyVariantValue() (fuzzy.Variant, error) {
	switch cfg.FuzzyVariant {
	case "T":
		return fuzzy.VariantT, nil
	case "S", "":
		return fuzzy.VariantS, nil
	default:
		return 0, &engine.ConfigError{Reason: "unknown fuzzy_variant " + cfg.FuzzyVariant}
	}
}

// NeighborPolicyValue parses the configured neighbor admission policy name.
func (cfg *RunConfig) NeighborPolicyValue() (engine.NeighborPolicy, error) {
	switch cfg.NeighborPolicy {
	case "weighted_stochastic":
		return engine.WeightedStochastic, nil
	case "simple", "":
		return engine.Simple, nil
	default:
		return 0, &engine.ConfigError{Reason: "unknown neighbor_policy " + cfg.NeighborPolicy}
	}
}
