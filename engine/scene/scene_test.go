package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateDefaults(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Seed = 42
	s := Populate(cfg)

	require.Equal(t, 500, s.Count())
	assert.Len(t, s.BoxVertexColors(), BoxVertexCount)
	for _, o := range s.Obstacles() {
		assert.Equal(t, mgl32.Vec3{100, 20, 100}, o.Size)

		// centers sit on a 20 unit lattice
		assert.Zero(t, int(o.Center.X())%20)
		assert.Zero(t, int(o.Center.Z())%20)
		assert.Equal(t, 10, int(o.Center.Y())%20)
		assert.GreaterOrEqual(t, o.Center.X(), float32(-400))
		assert.Less(t, o.Center.X(), float32(1400))
		assert.GreaterOrEqual(t, o.Center.Y(), float32(10))
		assert.Less(t, o.Center.Y(), float32(1800))

		assert.InDelta(t, o.Center.X()-50, o.Box.Min().X(), 1e-3)
		assert.InDelta(t, o.Center.Y()+10, o.Box.Max().Y(), 1e-3)

		for i := 0; i < 3; i++ {
			assert.GreaterOrEqual(t, o.Color[i], float32(0))
			assert.LessOrEqual(t, o.Color[i], float32(1))
		}
	}

	env := s.Environment()
	assert.Equal(t, float32(600), env.Fog.Near)
	assert.Equal(t, float32(2000), env.Fog.Far)
	assert.Equal(t, float32(4000), env.GroundSize)
	assert.Equal(t, float32(5), env.Hemisphere.Intensity)
	assert.Equal(t, mgl32.Vec3{0, 500, 100}, env.Directional.Position)
}

func TestSeedIsReproducible(t *testing.T) {
	a := NewScene(WithSeed(7), WithObstacleCount(20))
	b := NewScene(WithSeed(7), WithObstacleCount(20))
	assert.Equal(t, a.Obstacles(), b.Obstacles())
}

func TestGridLines(t *testing.T) {
	s := NewScene(WithObstacleCount(0), WithGridDivisions(20))
	assert.Zero(t, s.Count())
	assert.Nil(t, s.BoxVertexColors())

	lines := s.GridLines()
	require.Len(t, lines, 42)
	assert.Equal(t, mgl32.Vec3{-2000, 0, -2000}, lines[0].From)
	assert.Equal(t, mgl32.Vec3{2000, 0, -2000}, lines[0].To)
	// the middle pair is highlighted
	assert.NotEqual(t, lines[0].Color, lines[20].Color)
	assert.Equal(t, lines[20].Color, lines[21].Color)
}

func TestIntersecting(t *testing.T) {
	s := NewScene(WithObstacleList(
		Obstacle{Box: cube.Box(0, 0, 0, 10, 10, 10)},
		Obstacle{Box: cube.Box(5, 0, 5, 20, 10, 20)},
		Obstacle{Box: cube.Box(100, 0, 100, 110, 10, 110)},
	))

	idx, hit := s.Intersecting(cube.Box(8, 1, 8, 9, 2, 9))
	assert.True(t, hit)
	assert.Equal(t, 0, idx)

	idx, hit = s.Intersecting(cube.Box(105, 1, 105, 106, 2, 106))
	assert.True(t, hit)
	assert.Equal(t, 2, idx)

	idx, hit = s.Intersecting(cube.Box(500, 0, 500, 510, 10, 510))
	assert.False(t, hit)
	assert.Equal(t, -1, idx)
}

func TestIntersectingTouchingFaces(t *testing.T) {
	s := NewScene(WithObstacleList(Obstacle{Box: cube.Box(0, 0, 0, 10, 10, 10)}))

	idx, hit := s.Intersecting(cube.Box(10, 0, 0, 20, 10, 10))
	assert.True(t, hit)
	assert.Equal(t, 0, idx)

	_, hit = s.Intersecting(cube.Box(0, 10, 0, 10, 20, 10))
	assert.True(t, hit)

	_, hit = s.Intersecting(cube.Box(10.5, 0, 0, 20, 10, 10))
	assert.False(t, hit)
}
