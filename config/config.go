// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Flock     FlockConfig     `yaml:"flock"`
	Leaders   LeadersConfig   `yaml:"leaders"`
	Grid      GridConfig      `yaml:"grid"`
	Cache     CacheConfig     `yaml:"cache"`
	Step      StepConfig      `yaml:"step"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the simulation volume dimensions.
// Width and height default to the screen size; depth has no screen analogue.
type WorldConfig struct {
	Width  float64 `yaml:"width"`  // World width in world units (0 = use screen width)
	Height float64 `yaml:"height"` // World height in world units (0 = use screen height)
	Depth  float64 `yaml:"depth"`
}

// FlockConfig holds per-particle flocking parameters.
type FlockConfig struct {
	NumParticles       int     `yaml:"num_particles"`
	PerceptionRadius   float64 `yaml:"perception_radius"`
	MaxSpeed           float64 `yaml:"max_speed"`
	MaxForce           float64 `yaml:"max_force"`
	LaunchSpeed        float64 `yaml:"launch_speed"`         // Initial velocity magnitude
	SeparationOscSpeed float64 `yaml:"separation_osc_speed"` // Phase advance per frame
}

// LeadersConfig holds the orbit and smoothing parameters for the two seek targets.
type LeadersConfig struct {
	OrbitRadius   float64 `yaml:"orbit_radius"`
	OrbitSpeed    float64 `yaml:"orbit_speed"`   // Angle advance per frame
	Interpolation float64 `yaml:"interpolation"` // Low-pass factor toward the target
}

// GridConfig holds spatial grid parameters.
type GridConfig struct {
	CellSize       float64 `yaml:"cell_size"`       // Cell edge length (0 = 2x perception radius)
	UpdateInterval int     `yaml:"update_interval"` // Rebuild every N frames
}

// CacheConfig holds neighbor cache parameters.
type CacheConfig struct {
	Lifetime     int  `yaml:"lifetime"`      // Frames before a cached neighbor set goes stale
	Staggered    bool `yaml:"staggered"`     // Round-robin refresh groups instead of per-particle age
	MaxNeighbors int  `yaml:"max_neighbors"` // Query capacity K; results truncate here
}

// StepConfig holds step driver parameters.
type StepConfig struct {
	SortInterval  int     `yaml:"sort_interval"`   // Depth resort every N frames (0 = never)
	FrameBudgetMS float64 `yaml:"frame_budget_ms"` // Per-frame wall budget (0 = no budget)
	Parallel      bool    `yaml:"parallel"`        // Parallel force phase
	Workers       int     `yaml:"workers"`         // Worker count (0 = GOMAXPROCS)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	ProfileWindow int `yaml:"profile_window"` // Ticks per perf/stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32   float32 // Effective world width as float32
	WorldH32   float32 // Effective world height as float32
	WorldD32   float32 // World depth as float32
	CellSize32 float32 // Effective grid cell size as float32
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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	// Compute derived values and check cross-field constraints
	cfg.computeDerived()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = float64(c.Screen.Width)
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = float64(c.Screen.Height)
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
	c.Derived.WorldD32 = float32(c.World.Depth)

	// Neighbor queries scan one cell in each direction, so the cell edge
	// must cover the perception radius. Default gives a 2x margin.
	cellSize := c.Grid.CellSize
	if cellSize == 0 {
		cellSize = c.Flock.PerceptionRadius * 2
	}
	c.Derived.CellSize32 = float32(cellSize)
}

// validate rejects configurations the core cannot honor.
func (c *Config) validate() error {
	if c.Flock.NumParticles <= 0 {
		return fmt.Errorf("flock.num_particles must be positive, got %d", c.Flock.NumParticles)
	}
	if float32(c.Flock.PerceptionRadius) > c.Derived.CellSize32 {
		// The 3x3x3 cell scan misses true neighbors beyond one cell.
		return fmt.Errorf("grid.cell_size (%.1f) must be >= flock.perception_radius (%.1f)",
			c.Derived.CellSize32, c.Flock.PerceptionRadius)
	}
	if c.Grid.UpdateInterval < 1 {
		return fmt.Errorf("grid.update_interval must be >= 1, got %d", c.Grid.UpdateInterval)
	}
	if c.Cache.Lifetime < 1 {
		return fmt.Errorf("cache.lifetime must be >= 1, got %d", c.Cache.Lifetime)
	}
	if c.Cache.MaxNeighbors < 1 {
		return fmt.Errorf("cache.max_neighbors must be >= 1, got %d", c.Cache.MaxNeighbors)
	}
	if c.Telemetry.ProfileWindow < 1 {
		// The step loop flushes on frame % profile_window.
		return fmt.Errorf("telemetry.profile_window must be >= 1, got %d", c.Telemetry.ProfileWindow)
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
