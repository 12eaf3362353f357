// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Loop       LoopConfig       `yaml:"loop"`
	Generators GeneratorsConfig `yaml:"generators"`
	Screen     ScreenConfig     `yaml:"screen"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds the physical parameters.
type PhysicsConfig struct {
	Wrap             bool    `yaml:"wrap"`               // toroidal borders instead of clamped ones
	Rmax             float64 `yaml:"rmax"`               // interaction cutoff radius
	Friction         float64 `yaml:"friction"`           // fraction of velocity left after one second
	VelocityHalfLife float64 `yaml:"velocity_half_life"` // seconds until half the velocity is lost; overrides friction when > 0
	Force            float64 `yaml:"force"`              // force scale
	DT               float64 `yaml:"dt"`                 // fixed time step (seconds)
	AutoDT           bool    `yaml:"auto_dt"`            // use measured frame time
	MaxDT            float64 `yaml:"max_dt"`             // cap for measured time steps; negative = no cap
}

// PopulationConfig holds the initial population.
type PopulationConfig struct {
	Count int `yaml:"count"` // number of particles
	Types int `yaml:"types"` // number of particle types (matrix size)
}

// ParallelConfig holds work distribution parameters.
type ParallelConfig struct {
	Threads int `yaml:"threads"` // preferred batches per pass (0 = GOMAXPROCS)
}

// LoopConfig holds update loop parameters.
type LoopConfig struct {
	StopTimeout     float64 `yaml:"stop_timeout"`     // seconds to wait for the loop on each stop attempt
	FramerateWindow int     `yaml:"framerate_window"` // frames averaged for the reported framerate
}

// GeneratorsConfig selects the default collaborators.
type GeneratorsConfig struct {
	Position    string  `yaml:"position"`     // "uniform" or "noise"
	Matrix      string  `yaml:"matrix"`       // "random" or "symmetric"
	Accelerator string  `yaml:"accelerator"`  // "classic"
	NoiseScale  float64 `yaml:"noise_scale"`  // noise frequency for "noise" positions
	ClassicBeta float64 `yaml:"classic_beta"` // repulsion radius of the classic force law, relative to rmax
}

// ScreenConfig holds viewer settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	PointSize float64 `yaml:"point_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	Window int `yaml:"window"` // ticks per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Friction    float64       // per-second friction after applying velocity_half_life
	Threads     int           // effective preferred thread count
	StopTimeout time.Duration // Loop.StopTimeout as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Friction = c.Physics.Friction
	if c.Physics.VelocityHalfLife > 0 {
		c.Derived.Friction = math.Pow(0.5, 1/c.Physics.VelocityHalfLife)
	}

	c.Derived.Threads = c.Parallel.Threads
	if c.Derived.Threads <= 0 {
		c.Derived.Threads = runtime.GOMAXPROCS(0)
	}

	c.Derived.StopTimeout = time.Duration(c.Loop.StopTimeout * float64(time.Second))
}

// validate checks values the simulation cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Population.Types < 1:
		return fmt.Errorf("population.types must be at least 1, got %d", c.Population.Types)
	case c.Population.Count < 0:
		return fmt.Errorf("population.count must not be negative, got %d", c.Population.Count)
	case c.Loop.StopTimeout <= 0:
		return fmt.Errorf("loop.stop_timeout must be positive, got %v", c.Loop.StopTimeout)
	}

	switch c.Generators.Position {
	case "uniform", "noise":
	default:
		return fmt.Errorf("unknown generators.position %q", c.Generators.Position)
	}
	switch c.Generators.Matrix {
	case "random", "symmetric":
	default:
		return fmt.Errorf("unknown generators.matrix %q", c.Generators.Matrix)
	}
	switch c.Generators.Accelerator {
	case "classic":
	default:
		return fmt.Errorf("unknown generators.accelerator %q", c.Generators.Accelerator)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
