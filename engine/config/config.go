package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/Carmen-Shannon/oxy-character/common"
	"gopkg.in/yaml.v3"
)

// ErrNoAssets is returned by Validate when the asset list is empty.
var ErrNoAssets = errors.New("config: no assets configured")

// DefaultAssets lists the animation assets shipped with the demo, in menu order.
var DefaultAssets = []string{
	"Walking Backwards",
	"Fast Run",
	"Arm Stretching",
	"Flying Back Death",
	"Samba Dancing",
	"Falling To Roll",
	"Jumping",
}

// Config is the root of the YAML configuration document.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Window    WindowConfig    `yaml:"window"`
	Assets    AssetsConfig    `yaml:"assets"`
	Character CharacterConfig `yaml:"character"`
	Scene     SceneConfig     `yaml:"scene"`
	Camera    CameraConfig    `yaml:"camera"`
	Tuning    TuningConfig    `yaml:"tuning"`
	Stats     StatsConfig     `yaml:"stats"`
	Sentry    SentryConfig    `yaml:"sentry"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// AssetsConfig addresses asset files as Dir/<name>Extension.
type AssetsConfig struct {
	Dir       string   `yaml:"dir"`
	Extension string   `yaml:"extension"`
	Names     []string `yaml:"names"`
	Default   string   `yaml:"default"`
	Workers   int      `yaml:"workers"`
}

// AnimationNames maps controller roles to asset names.
type AnimationNames struct {
	Idle      string `yaml:"idle"`
	Run       string `yaml:"run"`
	Back      string `yaml:"back"`
	Jump      string `yaml:"jump"`
	Collision string `yaml:"collision"`
}

type CharacterConfig struct {
	MoveSpeed    float32        `yaml:"move_speed"`
	JumpVelocity float32        `yaml:"jump_velocity"`
	Gravity      float32        `yaml:"gravity"`
	FadeSeconds  float32        `yaml:"fade_seconds"`
	Spawn        [3]float32     `yaml:"spawn"`
	Yaw          *float32       `yaml:"yaw"`
	Scale        float32        `yaml:"scale"`
	Bounds       [3]float32     `yaml:"bounds"`
	Animations   AnimationNames `yaml:"animations"`
}

// HemisphereLight is a sky/ground ambient term.
type HemisphereLight struct {
	Sky       uint32  `yaml:"sky"`
	Ground    uint32  `yaml:"ground"`
	Intensity float32 `yaml:"intensity"`
}

type DirectionalLight struct {
	Color     uint32     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position"`
}

type SceneConfig struct {
	Seed          int64            `yaml:"seed"`
	Obstacles     *int             `yaml:"obstacles"`
	ObstacleSize  [3]float32       `yaml:"obstacle_size"`
	GroundSize    float32          `yaml:"ground_size"`
	GridDivisions int              `yaml:"grid_divisions"`
	Background    uint32           `yaml:"background"`
	FogNear       float32          `yaml:"fog_near"`
	FogFar        float32          `yaml:"fog_far"`
	GroundColor   uint32           `yaml:"ground_color"`
	Hemisphere    HemisphereLight  `yaml:"hemisphere"`
	Directional   DirectionalLight `yaml:"directional"`
}

type CameraConfig struct {
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

type TuningConfig struct {
	Path string `yaml:"path"`
}

type StatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads and decodes the YAML file at path, fills unset fields with defaults and validates the result.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - *Config: the decoded configuration
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults fills every zero-valued field with its default.
func (c *Config) ApplyDefaults() {
	c.LogLevel = common.Coalesce(c.LogLevel, "info")

	w := &c.Window
	w.Title = common.Coalesce(w.Title, "oxy character")
	if w.Width <= 0 {
		w.Width = 1280
	}
	if w.Height <= 0 {
		w.Height = 720
	}

	a := &c.Assets
	a.Dir = common.Coalesce(a.Dir, "models/glb")
	a.Extension = common.Coalesce(a.Extension, ".glb")
	if a.Names == nil {
		a.Names = slices.Clone(DefaultAssets)
	}
	a.Default = common.Coalesce(a.Default, "Arm Stretching")
	if a.Workers <= 0 {
		a.Workers = 4
	}

	ch := &c.Character
	ch.MoveSpeed = common.Coalesce(ch.MoveSpeed, 4)
	ch.JumpVelocity = common.Coalesce(ch.JumpVelocity, 30)
	ch.Gravity = common.Coalesce(ch.Gravity, 9.8)
	ch.FadeSeconds = common.Coalesce(ch.FadeSeconds, 0.5)
	ch.Spawn = common.Coalesce(ch.Spawn, [3]float32{1600, 0, 0})
	if ch.Yaw == nil {
		yaw := float32(3 * math.Pi / 2)
		ch.Yaw = &yaw
	}
	ch.Scale = common.Coalesce(ch.Scale, 1)
	ch.Bounds = common.Coalesce(ch.Bounds, [3]float32{40, 180, 40})
	an := &ch.Animations
	an.Idle = common.Coalesce(an.Idle, "Arm Stretching")
	an.Run = common.Coalesce(an.Run, "Fast Run")
	an.Back = common.Coalesce(an.Back, "Walking Backwards")
	an.Jump = common.Coalesce(an.Jump, "Jumping")
	an.Collision = common.Coalesce(an.Collision, "Flying Back Death")

	s := &c.Scene
	if s.Obstacles == nil {
		n := 500
		s.Obstacles = &n
	}
	s.ObstacleSize = common.Coalesce(s.ObstacleSize, [3]float32{100, 20, 100})
	s.GroundSize = common.Coalesce(s.GroundSize, 4000)
	s.GridDivisions = common.Coalesce(s.GridDivisions, 20)
	s.Background = common.Coalesce(s.Background, 0xddcae6)
	s.FogNear = common.Coalesce(s.FogNear, 600)
	s.FogFar = common.Coalesce(s.FogFar, 2000)
	s.GroundColor = common.Coalesce(s.GroundColor, 0xcc96e3)
	s.Hemisphere = common.Coalesce(s.Hemisphere, HemisphereLight{Sky: 0xffffff, Ground: 0x838285, Intensity: 5})
	s.Directional = common.Coalesce(s.Directional, DirectionalLight{Color: 0xffffff, Intensity: 5, Position: [3]float32{0, 500, 100}})

	cam := &c.Camera
	cam.FOV = common.Coalesce(cam.FOV, 45)
	cam.Near = common.Coalesce(cam.Near, 1)
	cam.Far = common.Coalesce(cam.Far, 2000)
	cam.Position = common.Coalesce(cam.Position, [3]float32{2400, 300, 0})
	cam.Target = common.Coalesce(cam.Target, [3]float32{0, 100, 0})

	c.Stats.Addr = common.Coalesce(c.Stats.Addr, "localhost:18066")
}

// Validate reports the first inconsistency in the configuration.
//
// Returns:
//   - error: ErrNoAssets for an empty asset list, or a descriptive error
func (c *Config) Validate() error {
	if len(c.Assets.Names) == 0 {
		return ErrNoAssets
	}
	if !slices.Contains(c.Assets.Names, c.Assets.Default) {
		return fmt.Errorf("config: default asset %q is not in the asset list", c.Assets.Default)
	}
	if c.Character.MoveSpeed <= 0 {
		return fmt.Errorf("config: move_speed must be positive, got %v", c.Character.MoveSpeed)
	}
	if c.Character.Gravity <= 0 {
		return fmt.Errorf("config: gravity must be positive, got %v", c.Character.Gravity)
	}
	if c.Character.FadeSeconds <= 0 {
		return fmt.Errorf("config: fade_seconds must be positive, got %v", c.Character.FadeSeconds)
	}
	if *c.Scene.Obstacles < 0 {
		return fmt.Errorf("config: obstacles must not be negative, got %d", *c.Scene.Obstacles)
	}
	return nil
}

// ObstacleCount returns the configured number of obstacles.
func (s SceneConfig) ObstacleCount() int {
	if s.Obstacles == nil {
		return 0
	}
	return *s.Obstacles
}

// CharacterYaw returns the configured spawn yaw.
func (c CharacterConfig) CharacterYaw() float32 {
	if c.Yaw == nil {
		return 0
	}
	return *c.Yaw
}
