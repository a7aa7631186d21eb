// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game settings. It is treated as immutable once loaded;
// swapping it is the only way to change difficulty.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Player     PlayerConfig     `yaml:"player"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Formation  FormationConfig  `yaml:"formation"`
	Bullets    BulletsConfig    `yaml:"bullets"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Collision  CollisionConfig  `yaml:"collision"`
	Debug      DebugConfig      `yaml:"debug"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	HighScores HighScoresConfig `yaml:"high_scores"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ArenaConfig holds the logical play field size. The renderer scales it to
// whatever the window is.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig holds player ship parameters.
type PlayerConfig struct {
	Speed        float64 `yaml:"speed"` // Units per frame
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Lives        int     `yaml:"lives"`
	BottomOffset float64 `yaml:"bottom_offset"` // Distance of the ship's y from the arena bottom
}

// EnemyConfig holds enemy grid parameters.
type EnemyConfig struct {
	Rows              int     `yaml:"rows"`
	Cols              int     `yaml:"cols"`
	MoveSpeed         float64 `yaml:"move_speed"`      // Units per frame at full strength
	VerticalStep      float64 `yaml:"vertical_step"`   // Drop applied on every edge bounce
	ShootFrequency    float64 `yaml:"shoot_frequency"` // Per-enemy fire probability per frame
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	HorizontalSpacing float64 `yaml:"horizontal_spacing"`
	VerticalSpacing   float64 `yaml:"vertical_spacing"`
	HorizontalPadding float64 `yaml:"horizontal_padding"`
	VerticalPadding   float64 `yaml:"vertical_padding"`
	Points            int     `yaml:"points"`
	ReferenceCols     int     `yaml:"reference_cols"` // Column count the move speed was tuned for
}

// FlipPolicy selects what happens to horizontal motion on the tick the
// formation reverses.
type FlipPolicy string

const (
	// FlipMove reverses and still moves horizontally on the same tick.
	FlipMove FlipPolicy = "move"
	// FlipHold reverses and only drops on the flip tick.
	FlipHold FlipPolicy = "hold"
)

// FormationConfig holds formation movement policy.
type FormationConfig struct {
	FlipPolicy FlipPolicy `yaml:"flip_policy"`
}

// BulletsConfig holds projectile parameters.
type BulletsConfig struct {
	Speed         float64 `yaml:"speed"` // Player bullet speed; enemy bullets use -speed/2
	MaxPlayer     int     `yaml:"max_player"`
	ShootCooldown float64 `yaml:"shoot_cooldown"` // Seconds
	PlayerWidth   float64 `yaml:"player_width"`
	PlayerHeight  float64 `yaml:"player_height"`
	EnemyWidth    float64 `yaml:"enemy_width"`
	EnemyHeight   float64 `yaml:"enemy_height"`
	CullBottom    bool    `yaml:"cull_bottom"` // Prune bullets leaving through the arena bottom
}

// PhysicsConfig holds tick timing parameters.
type PhysicsConfig struct {
	TicksPerSecond int     `yaml:"ticks_per_second"` // Frame rate delta is expressed against
	MaxDelta       float64 `yaml:"max_delta"`        // Upper clamp for a single tick's delta (frames)
}

// CollisionConfig holds collision pass options.
type CollisionConfig struct {
	UseQuadtree      bool `yaml:"use_quadtree"`
	QuadtreeCapacity int  `yaml:"quadtree_capacity"`
}

// DebugConfig holds development switches.
type DebugConfig struct {
	Strict bool `yaml:"strict"` // Reject ticks with invalid input instead of repairing them
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of game time per window
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	KillStreak   KillStreakConfig   `yaml:"kill_streak"`
	FormationLow FormationLowConfig `yaml:"formation_low"`
}

// KillStreakConfig holds kill streak detection parameters.
type KillStreakConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinKills   int     `yaml:"min_kills"`
}

// FormationLowConfig holds the depth fraction of the arena at which the
// formation is considered dangerously low.
type FormationLowConfig struct {
	DepthFraction float64 `yaml:"depth_fraction"`
}

// HighScoresConfig holds high score table settings.
type HighScoresConfig struct {
	Enabled bool   `yaml:"enabled"`
	Size    int    `yaml:"size"`
	Path    string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TotalSlots   int     // Enemy.Rows * Enemy.Cols
	ColumnScale  float64 // Enemy.Cols / Enemy.ReferenceCols
	GridWidth    float64 // Width of one full formation row
	GridOffsetX  float64 // X of the first column
	SecondsPerTk float64 // 1 / Physics.TicksPerSecond
	ScreenW32    float32
	ScreenH32    float32
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

// Default returns the embedded defaults. Panics if they do not parse, which
// would be a build defect.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	if !(c.Arena.Width > 0) || !(c.Arena.Height > 0) {
		return fmt.Errorf("arena size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height)
	}
	if c.Enemy.Rows < 1 || c.Enemy.Cols < 1 {
		return fmt.Errorf("enemy grid must have at least one row and column, got %dx%d", c.Enemy.Rows, c.Enemy.Cols)
	}
	if c.Enemy.ReferenceCols < 1 {
		return fmt.Errorf("enemy.reference_cols must be at least 1, got %d", c.Enemy.ReferenceCols)
	}
	if c.Enemy.Points < 1 {
		return fmt.Errorf("enemy.points must be positive, got %d", c.Enemy.Points)
	}
	if c.Enemy.ShootFrequency < 0 || c.Enemy.ShootFrequency > 1 {
		return fmt.Errorf("enemy.shoot_frequency must be in [0, 1], got %v", c.Enemy.ShootFrequency)
	}
	if c.Player.Lives < 1 {
		return fmt.Errorf("player.lives must be positive, got %d", c.Player.Lives)
	}
	if c.Bullets.MaxPlayer < 0 {
		return fmt.Errorf("bullets.max_player must not be negative, got %d", c.Bullets.MaxPlayer)
	}
	if c.Bullets.ShootCooldown < 0 {
		return fmt.Errorf("bullets.shoot_cooldown must not be negative, got %v", c.Bullets.ShootCooldown)
	}
	if !(c.Physics.MaxDelta > 0) || math.IsInf(c.Physics.MaxDelta, 0) {
		return fmt.Errorf("physics.max_delta must be positive and finite, got %v", c.Physics.MaxDelta)
	}
	if c.Physics.TicksPerSecond < 1 {
		return fmt.Errorf("physics.ticks_per_second must be positive, got %d", c.Physics.TicksPerSecond)
	}
	switch c.Formation.FlipPolicy {
	case FlipMove, FlipHold:
	default:
		return fmt.Errorf("formation.flip_policy must be %q or %q, got %q", FlipMove, FlipHold, c.Formation.FlipPolicy)
	}

	dims := []float64{
		c.Player.Speed, c.Player.Width, c.Player.Height,
		c.Enemy.MoveSpeed, c.Enemy.VerticalStep, c.Enemy.Width, c.Enemy.Height,
		c.Bullets.Speed, c.Bullets.PlayerWidth, c.Bullets.PlayerHeight,
		c.Bullets.EnemyWidth, c.Bullets.EnemyHeight,
	}
	for _, d := range dims {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("speeds and dimensions must be finite and non-negative, got %v", d)
		}
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config. Call it again
// after editing a Config in place.
func (c *Config) ComputeDerived() {
	e := &c.Enemy
	c.Derived.TotalSlots = e.Rows * e.Cols
	c.Derived.ColumnScale = float64(e.Cols) / float64(e.ReferenceCols)
	c.Derived.GridWidth = float64(e.Cols)*e.Width + float64(e.Cols-1)*e.HorizontalSpacing

	// Center the grid inside the padded arena
	available := c.Arena.Width - 2*e.HorizontalPadding
	c.Derived.GridOffsetX = e.HorizontalPadding + (available-c.Derived.GridWidth)/2

	c.Derived.SecondsPerTk = 1 / float64(c.Physics.TicksPerSecond)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// Clone returns a deep copy. Config holds no reference types, so a value
// copy is enough.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
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
