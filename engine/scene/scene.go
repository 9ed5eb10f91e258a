package scene

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// BoxVertexCount is the number of non-indexed vertices in one obstacle box.
const BoxVertexCount = 36

// Obstacle is a static box placed at startup. It never moves.
type Obstacle struct {
	Center mgl32.Vec3
	Size   mgl32.Vec3
	Color  mgl32.Vec3
	Box    cube.BBox
}

// GridLine is one segment of the ground grid.
type GridLine struct {
	From  mgl32.Vec3
	To    mgl32.Vec3
	Color mgl32.Vec3
}

// Fog is linear distance fog.
type Fog struct {
	Color mgl32.Vec3
	Near  float32
	Far   float32
}

// HemisphereLight blends between a sky and ground color by surface normal.
type HemisphereLight struct {
	Sky       mgl32.Vec3
	Ground    mgl32.Vec3
	Intensity float32
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
}

// Environment is everything static in the world besides the obstacles.
type Environment struct {
	Background  mgl32.Vec3
	Fog         Fog
	Hemisphere  HemisphereLight
	Directional DirectionalLight
	GroundSize  float32
	GroundColor mgl32.Vec3
}

// Scene holds the static world: ground, lights, fog, grid and obstacles.
// It is built once and read-only afterwards, so it is safe to share between goroutines.
type Scene interface {
	// Environment returns ground, fog and lighting parameters.
	Environment() Environment

	// Obstacles returns the obstacle list. Callers must not modify it.
	//
	// Returns:
	//   - []Obstacle: every obstacle in creation order
	Obstacles() []Obstacle

	// Count returns the number of obstacles.
	Count() int

	// BoxVertexColors returns the per-vertex tint shared by every obstacle box.
	//
	// Returns:
	//   - []mgl32.Vec3: BoxVertexCount colors, or nil when no obstacles exist
	BoxVertexColors() []mgl32.Vec3

	// GridLines returns the ground grid segments.
	GridLines() []GridLine

	// Intersecting scans every obstacle and returns the first one whose box intersects bb.
	//
	// Parameters:
	//   - bb: the world-space box to test
	//
	// Returns:
	//   - int: index of the first intersecting obstacle, or -1
	//   - bool: true if an obstacle intersects
	Intersecting(bb cube.BBox) (int, bool)
}

type scene struct {
	rng           *rand.Rand
	env           Environment
	count         int
	size          mgl32.Vec3
	gridDivisions int
	gridCenter    mgl32.Vec3
	gridColor     mgl32.Vec3

	obstacles   []Obstacle
	vertexTints []mgl32.Vec3
	grid        []GridLine
}

var _ Scene = &scene{}

// NewScene builds a scene with the given options applied. Obstacles are generated
// from the configured random source unless WithObstacleList supplies them.
//
// Parameters:
//   - options: a variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the populated scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		count:         500,
		size:          mgl32.Vec3{100, 20, 100},
		gridDivisions: 20,
		gridCenter:    common.HexColor(0x0f0a52),
		gridColor:     common.HexColor(0x000000),
		env:           defaultEnvironment(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if s.obstacles == nil && s.count > 0 {
		s.generate()
	}
	s.buildGrid()
	return s
}

// Populate builds the scene described by cfg. A zero seed draws from the clock.
//
// Parameters:
//   - cfg: the scene configuration
//
// Returns:
//   - Scene: the populated scene
func Populate(cfg config.SceneConfig) Scene {
	opts := []SceneBuilderOption{
		WithEnvironment(EnvironmentFromConfig(cfg)),
		WithObstacleCount(cfg.ObstacleCount()),
		WithObstacleSize(mgl32.Vec3(cfg.ObstacleSize)),
		WithGridDivisions(cfg.GridDivisions),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(uint64(cfg.Seed)))
	}
	return NewScene(opts...)
}

// EnvironmentFromConfig converts the configured hex colors and light settings.
func EnvironmentFromConfig(cfg config.SceneConfig) Environment {
	return Environment{
		Background: common.HexColor(cfg.Background),
		Fog: Fog{
			Color: common.HexColor(cfg.Background),
			Near:  cfg.FogNear,
			Far:   cfg.FogFar,
		},
		Hemisphere: HemisphereLight{
			Sky:       common.HexColor(cfg.Hemisphere.Sky),
			Ground:    common.HexColor(cfg.Hemisphere.Ground),
			Intensity: cfg.Hemisphere.Intensity,
		},
		Directional: DirectionalLight{
			Color:     common.HexColor(cfg.Directional.Color),
			Intensity: cfg.Directional.Intensity,
			Position:  mgl32.Vec3(cfg.Directional.Position),
		},
		GroundSize:  cfg.GroundSize,
		GroundColor: common.HexColor(cfg.GroundColor),
	}
}

func defaultEnvironment() Environment {
	return EnvironmentFromConfig(config.Default().Scene)
}

// generate places obstacles on a 20-unit lattice biased towards +x/+z.
func (s *scene) generate() {
	s.vertexTints = make([]mgl32.Vec3, BoxVertexCount)
	for i := range s.vertexTints {
		s.vertexTints[i] = common.HSL(s.rng.Float32()*0.3+0.5, 0.75, s.rng.Float32()*0.25+0.75)
	}

	half := s.size.Mul(0.5)
	s.obstacles = make([]Obstacle, s.count)
	for i := range s.obstacles {
		color := common.HSL(s.rng.Float32()*0.2+0.5, 0.75, s.rng.Float32()*0.25+0.75)
		center := mgl32.Vec3{
			lattice(s.rng.Float32()*90-20) * 20,
			lattice(s.rng.Float32()*90)*20 + 10,
			lattice(s.rng.Float32()*90-20) * 20,
		}
		lo, hi := center.Sub(half), center.Add(half)
		s.obstacles[i] = Obstacle{
			Center: center,
			Size:   s.size,
			Color:  color,
			Box:    cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z()),
		}
	}
}

func lattice(v float32) float32 {
	return math32.Floor(v)
}

// buildGrid lays out divisions+1 lines along each axis across the ground, with the two center lines highlighted.
func (s *scene) buildGrid() {
	if s.gridDivisions <= 0 || s.env.GroundSize <= 0 {
		return
	}
	half := s.env.GroundSize / 2
	step := s.env.GroundSize / float32(s.gridDivisions)
	center := s.gridDivisions / 2
	s.grid = make([]GridLine, 0, 2*(s.gridDivisions+1))
	for i := 0; i <= s.gridDivisions; i++ {
		k := -half + float32(i)*step
		color := s.gridColor
		if i == center {
			color = s.gridCenter
		}
		s.grid = append(s.grid,
			GridLine{From: mgl32.Vec3{-half, 0, k}, To: mgl32.Vec3{half, 0, k}, Color: color},
			GridLine{From: mgl32.Vec3{k, 0, -half}, To: mgl32.Vec3{k, 0, half}, Color: color},
		)
	}
}

func (s *scene) Environment() Environment {
	return s.env
}

func (s *scene) Obstacles() []Obstacle {
	return s.obstacles
}

func (s *scene) Count() int {
	return len(s.obstacles)
}

func (s *scene) BoxVertexColors() []mgl32.Vec3 {
	return slices.Clone(s.vertexTints)
}

func (s *scene) GridLines() []GridLine {
	return s.grid
}

func (s *scene) Intersecting(bb cube.BBox) (int, bool) {
	for i := range s.obstacles {
		if overlaps(s.obstacles[i].Box, bb) {
			return i, true
		}
	}
	return -1, false
}

// overlaps counts touching faces as a hit. cube.BBox.IntersectsWith does not.
func overlaps(a, b cube.BBox) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if aMin[i] > bMax[i] || aMax[i] < bMin[i] {
			return false
		}
	}
	return true
}
