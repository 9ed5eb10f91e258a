package scene

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithSeed makes obstacle placement reproducible.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
}

// WithObstacleCount sets how many obstacles are generated.
//
// Parameters:
//   - n: the obstacle count, 0 for an empty world
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObstacleCount(n int) SceneBuilderOption {
	return func(s *scene) {
		s.count = max(n, 0)
	}
}

// WithObstacleSize sets the full extents of each generated obstacle.
func WithObstacleSize(size mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		if size.X() > 0 && size.Y() > 0 && size.Z() > 0 {
			s.size = size
		}
	}
}

// WithObstacleList replaces generation with a fixed obstacle list.
//
// Parameters:
//   - obstacles: the obstacles to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObstacleList(obstacles ...Obstacle) SceneBuilderOption {
	return func(s *scene) {
		s.obstacles = append([]Obstacle{}, obstacles...)
	}
}

// WithEnvironment sets ground, fog and lighting.
func WithEnvironment(env Environment) SceneBuilderOption {
	return func(s *scene) {
		s.env = env
	}
}

// WithGridDivisions sets the number of grid cells along each ground edge.
func WithGridDivisions(n int) SceneBuilderOption {
	return func(s *scene) {
		s.gridDivisions = n
	}
}
